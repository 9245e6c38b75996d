package xjson_test

import (
	"os"

	"github.com/omeyang/duallog/pkg/util/xjson"
)

func ExampleEncode() {
	type status struct {
		Degraded bool   `json:"degraded"`
		Path     string `json:"path"`
	}
	_ = xjson.Encode(os.Stdout, status{Path: "logs/app_log.txt"})
	// Output:
	// {
	//   "degraded": false,
	//   "path": "logs/app_log.txt"
	// }
}
