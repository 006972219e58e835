package model

import "github.com/google/uuid"

type SweepError struct {
	Symbol      string // empty when the whole portfolio failed to save
	PortfolioID uuid.UUID
	Cause       error
}

type SweepResult struct {
	Skipped             bool
	InProgress          bool // skipped because another sweep was still running
	PortfoliosProcessed int
	AssetsUpdated       int
	Errors              []SweepError
}
