package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/inferkit/schedc/internal/ir"
)

// Loader error codes (E001-E019)
const (
	ErrCodeGeneric     = "E000" // uncategorized error
	ErrCodeNotFound    = "E001" // model file not found
	ErrCodeUnsupported = "E002" // unsupported file extension
	ErrCodeParse       = "E003" // file did not parse
	ErrCodeModel       = "E004" // parsed file is not a valid model description
)

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// modelFile is the on-disk model description. Edge kinds are letter strings
// ("DF", "R", ...) and group membership uses string keys so the same shape
// works across CUE, YAML and JSON.
type modelFile struct {
	Name       string         `json:"name" yaml:"name"`
	Statements int            `json:"statements" yaml:"statements"`
	Edges      []edgeFile     `json:"edges" yaml:"edges"`
	Groups     map[string]int `json:"groups" yaml:"groups"`
}

type edgeFile struct {
	Source int    `json:"source" yaml:"source"`
	Target int    `json:"target" yaml:"target"`
	Kinds  string `json:"kinds" yaml:"kinds"`
}

// LoadModel reads a model spec from a CUE, YAML or JSON file, chosen by
// extension.
func LoadModel(path string) (ir.ModelSpec, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ir.ModelSpec{}, &LoadError{Code: ErrCodeNotFound, Message: "model file not found", Path: path}
	}
	if err != nil {
		return ir.ModelSpec{}, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
	}

	var mf modelFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		mf, err = parseCUEModel(path, data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &mf)
		if err != nil {
			err = &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
		}
	case ".json":
		err = json.Unmarshal(data, &mf)
		if err != nil {
			err = &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
		}
	default:
		err = &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported model file extension %q", ext), Path: path}
	}
	if err != nil {
		return ir.ModelSpec{}, err
	}

	spec, err := mf.toSpec()
	if err != nil {
		return ir.ModelSpec{}, &LoadError{Code: ErrCodeModel, Message: err.Error(), Path: path}
	}
	return spec, nil
}

// parseCUEModel evaluates a CUE file and decodes its model. The model may
// live under a top-level "model" field or be the file's root value.
func parseCUEModel(path string, data []byte) (modelFile, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return modelFile{}, &LoadError{Code: ErrCodeParse, Message: err.Error(), Path: path}
	}

	if nested := v.LookupPath(cue.ParsePath("model")); nested.Exists() {
		v = nested
	}

	var mf modelFile
	if err := v.Decode(&mf); err != nil {
		return modelFile{}, &LoadError{Code: ErrCodeModel, Message: err.Error(), Path: path}
	}
	return mf, nil
}

// toSpec converts the file form into the compiler's spec: letter kinds
// parsed, group keys parsed to ints.
func (mf modelFile) toSpec() (ir.ModelSpec, error) {
	spec := ir.ModelSpec{
		Name:       mf.Name,
		Statements: mf.Statements,
	}

	for i, e := range mf.Edges {
		kinds, err := ir.ParseKinds(e.Kinds)
		if err != nil {
			return ir.ModelSpec{}, fmt.Errorf("edges[%d]: %w", i, err)
		}
		spec.Edges = append(spec.Edges, ir.Edge{Source: e.Source, Target: e.Target, Kinds: kinds})
	}

	if len(mf.Groups) > 0 {
		spec.GroupOf = make(map[int]int, len(mf.Groups))
		for key, group := range mf.Groups {
			member, err := strconv.Atoi(key)
			if err != nil {
				return ir.ModelSpec{}, fmt.Errorf("groups: member key %q is not an integer", key)
			}
			spec.GroupOf[member] = group
		}
	}

	return spec, nil
}

// parseScheduleArg parses "0,1,0,1,2,3" into a schedule. Empty input yields
// an empty schedule.
func parseScheduleArg(arg string) (ir.Schedule, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	out := make(ir.Schedule, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("schedule entry %q is not an integer", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseIntListArg parses "2,5" into indices.
func parseIntListArg(arg string) ([]int, error) {
	s, err := parseScheduleArg(arg)
	if err != nil {
		return nil, err
	}
	return []int(s), nil
}

// parseStaleArg parses "target:source" pairs, comma separated.
func parseStaleArg(arg string) ([]ir.StaleEdge, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}
	var out []ir.StaleEdge
	for _, pair := range strings.Split(arg, ",") {
		halves := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(halves) != 2 {
			return nil, fmt.Errorf("stale entry %q: want target:source", pair)
		}
		target, err := strconv.Atoi(strings.TrimSpace(halves[0]))
		if err != nil {
			return nil, fmt.Errorf("stale entry %q: target is not an integer", pair)
		}
		source, err := strconv.Atoi(strings.TrimSpace(halves[1]))
		if err != nil {
			return nil, fmt.Errorf("stale entry %q: source is not an integer", pair)
		}
		out = append(out, ir.StaleEdge{Target: target, Source: source})
	}
	return out, nil
}
