package domain

import (
	"context"
	"errors"
)

// Failure kinds of MathQueryClient.Query.
var (
	ErrMathUnreachable = errors.New("math api unreachable")
	ErrMathStatus      = errors.New("math api returned unexpected status")
	ErrMathDecode      = errors.New("math api response could not be decoded")
)

// MathQueryResult is the subset of a computation API answer the bot renders.
type MathQueryResult struct {
	Success bool
	Timing  string
	Pods    []MathPod
}

// MathPod is one titled section of a result.
type MathPod struct {
	Title   string
	SubPods []MathSubPod
}

// MathSubPod is one rendering inside a pod.
type MathSubPod struct {
	Title     string
	Plaintext string
	Image     MathImage
}

// MathImage points at a rendered image of a subpod.
type MathImage struct {
	Source string
	Alt    string
	Title  string
}

// MathQueryClient sends a query to the computation API.
type MathQueryClient interface {
	Query(ctx context.Context, query string) (*MathQueryResult, error)
}
