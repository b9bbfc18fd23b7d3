package sdk

import "strings"

// Asset is a backend asset as decoded from a JSON response. Assets are kept
// as generic maps because the backend schema differs per kind and per
// version; typed accessors cover the fields the client needs.
type Asset = map[string]interface{}

// Key returns the unique identifier of an asset. Older backends return the
// identifier under "pkhash", newer ones under "key".
func Key(a Asset) string {
	if k, ok := a["key"].(string); ok && k != "" {
		return k
	}
	if k, ok := a["pkhash"].(string); ok {
		return k
	}
	return ""
}

// Lookup resolves a dotted composite key ("testDataset.dataManagerKey")
// inside a decoded asset.
func Lookup(a Asset, ref string) interface{} {
	var cur interface{} = a
	for _, part := range strings.Split(ref, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// Permissions restricts which nodes may use an asset. An empty Public list
// means owner-only.
type Permissions struct {
	Public        bool     `json:"public" yaml:"public"`
	AuthorizedIDs []string `json:"authorized_ids,omitempty" yaml:"authorized_ids,omitempty"`
}

// AlgoSpec describes an algo to register. File may point either to a
// ready-made archive or to a directory that will be packaged by the client;
// Description points to a markdown file.
type AlgoSpec struct {
	Name        string       `json:"name" yaml:"name" validate:"required"`
	File        string       `json:"-" yaml:"file" validate:"required"`
	Description string       `json:"-" yaml:"description" validate:"required"`
	Permissions *Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// DatasetSpec describes a dataset (a data manager) to register. The opener
// is the Python module the platform uses to load data samples.
type DatasetSpec struct {
	Name         string       `json:"name" yaml:"name" validate:"required"`
	Type         string       `json:"type" yaml:"type" validate:"required"`
	DataOpener   string       `json:"-" yaml:"data_opener" validate:"required"`
	Description  string       `json:"-" yaml:"description" validate:"required"`
	ObjectiveKey string       `json:"objective_key,omitempty" yaml:"objective_key,omitempty"`
	Permissions  *Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// ObjectiveSpec describes an objective to register. Metrics points to the
// metrics code (archive or directory), and the optional test dataset pins
// the data used for certified testtuples.
type ObjectiveSpec struct {
	Name               string       `json:"name" yaml:"name" validate:"required"`
	Metrics            string       `json:"-" yaml:"metrics" validate:"required"`
	MetricsName        string       `json:"metrics_name" yaml:"metrics_name" validate:"required"`
	Description        string       `json:"-" yaml:"description" validate:"required"`
	TestDataManagerKey string       `json:"test_data_manager_key,omitempty" yaml:"test_data_manager_key,omitempty"`
	TestDataSampleKeys []string     `json:"test_data_sample_keys,omitempty" yaml:"test_data_sample_keys,omitempty"`
	Permissions        *Permissions `json:"permissions,omitempty" yaml:"permissions,omitempty"`
}

// DataSampleSpec describes one or more data samples to register. Each path
// is a directory holding the sample files.
type DataSampleSpec struct {
	Paths           []string `json:"-" yaml:"paths" validate:"required,min=1"`
	DataManagerKeys []string `json:"data_manager_keys" yaml:"data_manager_keys" validate:"required,min=1"`
	TestOnly        bool     `json:"test_only" yaml:"test_only"`
}

// TraintupleSpec describes a training task to register.
type TraintupleSpec struct {
	AlgoKey             string   `json:"algo_key" yaml:"algo_key" validate:"required"`
	ObjectiveKey        string   `json:"objective_key" yaml:"objective_key" validate:"required"`
	DataManagerKey      string   `json:"data_manager_key" yaml:"data_manager_key" validate:"required"`
	TrainDataSampleKeys []string `json:"train_data_sample_keys" yaml:"train_data_sample_keys" validate:"required,min=1"`
	InModelKeys         []string `json:"in_models_keys,omitempty" yaml:"in_models_keys,omitempty"`
	Tag                 string   `json:"tag,omitempty" yaml:"tag,omitempty"`
	ComputePlanID       string   `json:"compute_plan_id,omitempty" yaml:"compute_plan_id,omitempty"`
	Rank                *int     `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// TesttupleSpec describes a testing task to register. When no dataset is
// given the objective's test dataset is used and the testtuple is certified.
type TesttupleSpec struct {
	TraintupleKey      string   `json:"traintuple_key" yaml:"traintuple_key" validate:"required"`
	DataManagerKey     string   `json:"data_manager_key,omitempty" yaml:"data_manager_key,omitempty"`
	TestDataSampleKeys []string `json:"test_data_sample_keys,omitempty" yaml:"test_data_sample_keys,omitempty"`
	Tag                string   `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// ComputePlanSpec describes a full training workflow registered in one call.
type ComputePlanSpec struct {
	ObjectiveKey string                  `json:"objective_key" yaml:"objective_key" validate:"required"`
	Traintuples  []ComputePlanTraintuple `json:"traintuples" yaml:"traintuples" validate:"required,min=1,dive"`
	Testtuples   []ComputePlanTesttuple  `json:"testtuples,omitempty" yaml:"testtuples,omitempty"`
	Tag          string                  `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// ComputePlanTraintuple is a traintuple inside a compute plan. The ID is
// local to the plan and referenced by other tuples via InModelIDs.
type ComputePlanTraintuple struct {
	ID                  string   `json:"traintuple_id" yaml:"traintuple_id" validate:"required"`
	AlgoKey             string   `json:"algo_key" yaml:"algo_key" validate:"required"`
	DataManagerKey      string   `json:"data_manager_key" yaml:"data_manager_key" validate:"required"`
	TrainDataSampleKeys []string `json:"train_data_sample_keys" yaml:"train_data_sample_keys" validate:"required,min=1"`
	InModelIDs          []string `json:"in_models_ids,omitempty" yaml:"in_models_ids,omitempty"`
	Tag                 string   `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// ComputePlanTesttuple is a testtuple inside a compute plan.
type ComputePlanTesttuple struct {
	TraintupleID string `json:"traintuple_id" yaml:"traintuple_id" validate:"required"`
	Tag          string `json:"tag,omitempty" yaml:"tag,omitempty"`
}
