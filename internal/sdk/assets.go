package sdk

import (
	"fmt"
	"strings"
)

// Kind identifies a type of asset managed by the backend.
type Kind string

const (
	KindAlgo        Kind = "algo"
	KindObjective   Kind = "objective"
	KindDataset     Kind = "dataset"
	KindDataSample  Kind = "data_sample"
	KindTraintuple  Kind = "traintuple"
	KindTesttuple   Kind = "testtuple"
	KindComputePlan Kind = "compute_plan"
)

// kindRoutes maps asset kinds to their URL path segment. The dataset kind
// is historically named "data_manager" on the wire.
var kindRoutes = map[Kind]string{
	KindAlgo:        "algo",
	KindObjective:   "objective",
	KindDataset:     "data_manager",
	KindDataSample:  "data_sample",
	KindTraintuple:  "traintuple",
	KindTesttuple:   "testtuple",
	KindComputePlan: "compute_plan",
}

var kindAliases = map[string]Kind{
	"algo":         KindAlgo,
	"objective":    KindObjective,
	"dataset":      KindDataset,
	"data_manager": KindDataset,
	"data_sample":  KindDataSample,
	"datasample":   KindDataSample,
	"traintuple":   KindTraintuple,
	"testtuple":    KindTesttuple,
	"compute_plan": KindComputePlan,
	"computeplan":  KindComputePlan,
}

// ParseKind resolves a user-supplied asset name to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown asset %q (expected one of: algo, objective, dataset, data_sample, traintuple, testtuple, compute_plan)", s)
	}
	return k, nil
}

func (k Kind) route() string {
	return kindRoutes[k]
}

// PrettyName returns the asset name used in user-facing messages.
func (k Kind) PrettyName() string {
	return strings.ReplaceAll(string(k), "_", " ")
}
