package models

import "errors"

// ErrUnknownNumberID is returned for a number ID with no upstream resource.
var ErrUnknownNumberID = errors.New("unknown number id")

// NumbersResult is the outcome of absorbing one upstream batch into the window.
type NumbersResult struct {
	WindowPrevState []float64 `json:"windowPrevState"`
	WindowCurrState []float64 `json:"windowCurrState"`
	Numbers         []float64 `json:"numbers"`
	Avg             float64   `json:"avg"`
}

// WindowUpdate is broadcast to live subscribers after each absorb.
type WindowUpdate struct {
	ID string `json:"id"`
	NumbersResult
}
