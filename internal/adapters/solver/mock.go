package solver

import (
	"context"
	"errors"

	"bag-delivery-service/internal/ports"
)

// MockSolver returns canned solutions for tests. When SolveFunc is set
// it takes precedence; otherwise Solution/Err are returned as-is.
type MockSolver struct {
	Solution  ports.Solution
	Err       error
	SolveFunc func(ctx context.Context, p ports.Problem) (ports.Solution, error)

	// Problems records every request received, in call order.
	Problems []ports.Problem
}

func (m *MockSolver) Solve(ctx context.Context, p ports.Problem) (ports.Solution, error) {
	m.Problems = append(m.Problems, p)
	if m.SolveFunc != nil {
		return m.SolveFunc(ctx, p)
	}
	if m.Err != nil {
		return ports.Solution{}, m.Err
	}
	return m.Solution, nil
}

// ErrNoSolution is a convenient canned failure for tests.
var ErrNoSolution = errors.New("no solution found")

var _ ports.Solver = (*MockSolver)(nil)
