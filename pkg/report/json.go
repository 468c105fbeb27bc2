package report

import (
	"encoding/json"

	"github.com/matzehuels/depsummary/pkg/errors"
	"github.com/matzehuels/depsummary/pkg/license"
)

// RenderJSON emits one record per dependency with no deduplication applied.
// The machine-readable form keeps every record so consumers can apply their
// own grouping.
func RenderJSON(infos []*license.Info) ([]byte, error) {
	if infos == nil {
		infos = []*license.Info{}
	}
	data, err := json.Marshal(infos)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encoding dependency records")
	}
	return data, nil
}
