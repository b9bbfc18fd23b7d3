package printer

import (
	"fmt"
	"io"

	"github.com/owkin/substra/internal/sdk"
)

var keyField = NewField("key", "key")

var printers = map[sdk.Kind]Printer{
	sdk.KindAlgo: &AssetPrinter{
		AssetName: "algo",
		KeyField:  keyField,
		ListFields: []Field{
			NewField("Name", "name"),
		},
		SingleFields: []Field{
			NewField("Name", "name"),
			NewPermissionField("Permissions", "permissions"),
		},
		DownloadMessage: "Download this algorithm's code:",
		HasDescription:  true,
	},
	sdk.KindObjective: &AssetPrinter{
		AssetName: "objective",
		KeyField:  keyField,
		ListFields: []Field{
			NewField("Name", "name"),
			NewField("Metrics", "metrics.name"),
		},
		SingleFields:    objectiveSingleFields,
		DownloadMessage: "Download this objective's metric:",
		HasDescription:  true,
		HasLeaderboard:  true,
	},
	sdk.KindDataset: &AssetPrinter{
		AssetName: "dataset",
		KeyField:  keyField,
		ListFields: []Field{
			NewField("Name", "name"),
			NewField("Type", "type"),
		},
		SingleFields: []Field{
			NewField("Name", "name"),
			NewField("Objective key", "objectiveKey"),
			NewField("Type", "type"),
			NewDataSampleKeysField("Train data sample keys", "trainDataSampleKeys"),
			NewDataSampleKeysField("Test data sample keys", "testDataSampleKeys"),
			NewPermissionField("Permissions", "permissions"),
		},
		DownloadMessage: "Download this data manager's opener:",
		HasDescription:  true,
	},
	sdk.KindDataSample: &AssetPrinter{
		AssetName:      "data sample",
		KeyField:       keyField,
		HasDescription: true,
	},
	sdk.KindTraintuple: &AssetPrinter{
		AssetName: "traintuple",
		KeyField:  keyField,
		ListFields: []Field{
			NewField("Algo name", "algo.name"),
			NewField("Status", "status"),
			NewField("Perf", "dataset.perf"),
		},
		SingleFields: []Field{
			NewField("Model key", "outModel.hash"),
			NewField("Algo key", "algo.hash"),
			NewField("Algo name", "algo.name"),
			NewField("Objective key", "objective.hash"),
			NewField("Status", "status"),
			NewField("Perf", "dataset.perf"),
			NewDataSampleKeysField("Train data sample keys", "dataset.keys"),
			NewField("Rank", "rank"),
			NewField("Compute Plan Id", "computePlanID"),
			NewField("Tag", "tag"),
			NewField("Log", "log"),
			NewPermissionField("Permissions", "permissions"),
		},
	},
	sdk.KindTesttuple: &AssetPrinter{
		AssetName: "testtuple",
		KeyField:  keyField,
		ListFields: []Field{
			NewField("Algo name", "algo.name"),
			NewField("Certified", "certified"),
			NewField("Status", "status"),
			NewField("Perf", "dataset.perf"),
		},
		SingleFields: []Field{
			NewField("Traintuple key", "model.traintupleKey"),
			NewField("Algo key", "algo.hash"),
			NewField("Algo name", "algo.name"),
			NewField("Objective key", "objective.hash"),
			NewField("Certified", "certified"),
			NewField("Status", "status"),
			NewField("Perf", "dataset.perf"),
			NewDataSampleKeysField("Test data sample keys", "dataset.keys"),
			NewField("Tag", "tag"),
			NewField("Log", "log"),
			NewPermissionField("Permissions", "permissions"),
		},
	},
}

var objectiveSingleFields = []Field{
	NewField("Name", "name"),
	NewField("Metrics", "metrics.name"),
	NewField("Test dataset key", "testDataset.dataManagerKey"),
	NewDataSampleKeysField("Test data sample keys", "testDataset.dataSampleKeys"),
	NewPermissionField("Permissions", "permissions"),
}

// ForKind returns the printer registered for a kind; unregistered kinds
// (compute plans) fall back to raw JSON output.
func ForKind(kind sdk.Kind) Printer {
	if p, ok := printers[kind]; ok {
		return p
	}
	return jsonPrinter{}
}

var leaderboardTesttupleFields = []Field{
	NewField("Perf", "perf"),
	NewField("Algo name", "algo.name"),
	NewField("Traintuple key", "model.traintupleKey"),
}

// PrintLeaderboard renders an objective leaderboard: the objective details
// followed by a table of its certified testtuples.
func PrintLeaderboard(w io.Writer, board sdk.Asset, raw, expand bool) error {
	if raw {
		return PrintRaw(w, board)
	}

	objective, _ := board["objective"].(map[string]interface{})
	fields := append([]Field{NewField("Key", "key")}, objectiveSingleFields...)

	fmt.Fprintln(w, "========== OBJECTIVE ==========")
	printDetails(w, objective, fields, expand)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "========= LEADERBOARD =========")

	var testtuples []sdk.Asset
	if list, ok := board["testtuples"].([]interface{}); ok {
		for _, item := range list {
			if a, ok := item.(map[string]interface{}); ok {
				testtuples = append(testtuples, a)
			}
		}
	}
	printTable(w, testtuples, leaderboardTesttupleFields)
	return nil
}
