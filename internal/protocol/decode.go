package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"afmdash/domain/analysis"
	"afmdash/domain/curves"
	"afmdash/internal/errors"
)

const filterArraySuffix = "_filter_array"

// Decode turns one inbound text frame into an Action. Only frames that are not
// JSON at all fail; anything else unexpected decodes to Ignored.
func Decode(raw []byte) (Action, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.MalformedMessage(fmt.Errorf("invalid json (%d bytes)", len(raw)))
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Ignored{Reason: "not an object"}, nil
	}

	status := root.Get("status").String()
	switch status {
	case StatusBatch:
		return decodeBatch(root.Get("data")), nil
	case StatusFilterDefaults:
		data := root.Get("data")
		if !data.IsObject() {
			return Ignored{Status: status, Reason: "missing data"}, nil
		}
		return FilterDefaultsReceived{Defaults: decodeFilterDefaults(data)}, nil
	case StatusMetadata:
		md := root.Get("metadata")
		if !md.IsObject() {
			return Ignored{Status: status, Reason: "missing metadata"}, nil
		}
		var out curves.Metadata
		if err := json.Unmarshal([]byte(md.Raw), &out); err != nil {
			return Ignored{Status: status, Reason: err.Error()}, nil
		}
		if out.Columns == nil {
			out.Columns = []string{}
		}
		if out.SampleRow == nil {
			out.SampleRow = map[string]interface{}{}
		}
		return MetadataReceived{Metadata: out}, nil
	case StatusComplete:
		return Completed{}, nil
	case StatusError:
		msg := root.Get("message").String()
		if msg == "" {
			msg = "analysis failed"
		}
		return Failed{Message: msg}, nil
	case StatusBatchEmpty, StatusBatchError:
		return Notice{Status: status, Message: root.Get("message").String()}, nil
	case "":
		return Ignored{Reason: "missing status"}, nil
	default:
		return Ignored{Status: status, Reason: "unknown status"}, nil
	}
}

func decodeBatch(data gjson.Result) Action {
	if !data.IsObject() || len(data.Map()) == 0 {
		return Ignored{Status: StatusBatch, Reason: "empty data"}
	}

	b := BatchReceived{}
	b.ForceVsZ = decodeGraph[ForceGraph](data, KeyForceVsZ, &b.Skipped)
	b.ForceVsZSingle = decodeGraph[ForceGraph](data, KeyForceVsZSingle, &b.Skipped)
	b.ForceIndentation = decodeGraph[IndentationGraph](data, KeyForceIndentation, &b.Skipped)
	b.ForceIndentationSingle = decodeGraph[IndentationGraph](data, KeyForceIndentationSingle, &b.Skipped)
	b.ElasticitySpectra = decodeGraph[ElasticityGraph](data, KeyElasticitySpectra, &b.Skipped)
	b.ElasticitySpectraSingle = decodeGraph[ElasticityGraph](data, KeyElasticitySpectraSingle, &b.Skipped)

	normalizeBatch(&b)
	return b
}

// decodeGraph decodes one graph key independently so a malformed graph only
// loses itself, never its siblings
func decodeGraph[T any](data gjson.Result, key string, skipped *[]string) *T {
	v := data.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if !v.IsObject() {
		*skipped = append(*skipped, key)
		return nil
	}
	var out T
	if err := json.Unmarshal([]byte(v.Raw), &out); err != nil {
		*skipped = append(*skipped, key)
		return nil
	}
	return &out
}

func normalizeBatch(b *BatchReceived) {
	for _, g := range []*ForceGraph{b.ForceVsZ, b.ForceVsZSingle} {
		if g != nil {
			g.Curves = curves.NormalizeAll(g.Curves)
		}
	}
	for _, g := range []*IndentationGraph{b.ForceIndentation, b.ForceIndentationSingle} {
		if g != nil && g.Curves != nil {
			g.Curves.CurvesCP = curves.NormalizeAll(g.Curves.CurvesCP)
		}
	}
	for _, g := range []*ElasticityGraph{b.ElasticitySpectra, b.ElasticitySpectraSingle} {
		if g != nil {
			g.Curves = curves.NormalizeAll(g.Curves)
		}
	}
}

func decodeFilterDefaults(data gjson.Result) analysis.FilterDefaults {
	return analysis.FilterDefaults{
		Regular:          stripSuffix(data.Get("regular_filters")),
		CPFilters:        stripSuffix(data.Get("cp_filters")),
		ForceModels:      stripSuffix(data.Get("fmodels")),
		ElasticityModels: stripSuffix(data.Get("emodels")),
	}
}

// stripSuffix removes the first _filter_array occurrence from every key
func stripSuffix(family gjson.Result) analysis.FilterConfig {
	out := analysis.FilterConfig{}
	if !family.IsObject() {
		return out
	}
	family.ForEach(func(key, value gjson.Result) bool {
		out[strings.Replace(key.String(), filterArraySuffix, "", 1)] = value.Value()
		return true
	})
	return out
}
