package audit

import "errors"

// ErrNoEvaluationData indicates the evaluation has no tenders or no stored results to score.
var ErrNoEvaluationData = errors.New("no data available for evaluation")

// ErrNoResults indicates no stored audit results; models must run first.
var ErrNoResults = errors.New("no audit results found")
