// Package schema implements the tag resolver (C6): classification of
// untagged plain scalars into Failsafe, JSON or Core typed values, per §4.5.
// Grounded on WillAbides-yaml's internal/resolve/resolve.go (a direct port
// of libyaml's resolution table) for the constant tag names. Resolution
// goes through the literal and regex tables only; there is no separate
// number fast path.
package schema

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/token"
)

// Name identifies one of the three standard schemas.
type Name int

const (
	Failsafe Name = iota
	JSON
	Core
)

func (n Name) String() string {
	switch n {
	case Failsafe:
		return "Failsafe"
	case JSON:
		return "JSON"
	case Core:
		return "Core"
	}
	return "Core"
}

// Error reports that a plain scalar could not be classified under a strict
// schema (only reachable under JSON in strict mode; Core never errors).
type Error struct {
	Text string
	Mark token.Mark
}

func (e *Error) Error() string { return "schema: cannot resolve scalar " + strconv.Quote(e.Text) }

var (
	jsonInt   = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	jsonFloat = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

	coreInt    = regexp.MustCompile(`^[-+]?(0|[1-9][0-9_]*)$`)
	coreOctal  = regexp.MustCompile(`^[-+]?0o[0-7]+$`)
	coreHex    = regexp.MustCompile(`^[-+]?0x[0-9a-fA-F]+$`)
	coreFloat  = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)
	coreNull   = map[string]bool{"~": true, "null": true, "Null": true, "NULL": true, "": true}
	coreTrue   = map[string]bool{"true": true, "True": true, "TRUE": true}
	coreFalse  = map[string]bool{"false": true, "False": true, "FALSE": true}
	coreInfPos = map[string]bool{".inf": true, ".Inf": true, ".INF": true, "+.inf": true, "+.Inf": true, "+.INF": true}
	coreInfNeg = map[string]bool{"-.inf": true, "-.Inf": true, "-.INF": true}
	coreNaN    = map[string]bool{".nan": true, ".NaN": true, ".NAN": true}
)

// Resolve classifies text (the decoded content of an untagged plain
// scalar) under the given schema, returning a fully-typed Value. quoted
// scalars never reach this function: callers must classify them as
// StringKind directly (§4.5: "quoted scalars are always strings unless an
// explicit tag overrides").
func Resolve(name Name, text string, mark token.Mark) (*ast.Value, error) {
	switch name {
	case Failsafe:
		return ast.String(text, mark), nil
	case JSON:
		return resolveJSON(text, mark)
	default:
		return resolveCore(text, mark), nil
	}
}

func resolveJSON(text string, mark token.Mark) (*ast.Value, error) {
	switch text {
	case "null":
		return ast.Null(mark), nil
	case "true":
		return ast.Bool(true, mark), nil
	case "false":
		return ast.Bool(false, mark), nil
	}
	if jsonInt.MatchString(text) {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return ast.Int(n, mark), nil
		}
		if bi, ok := new(big.Int).SetString(text, 10); ok {
			return ast.BigInt(bi, mark), nil
		}
	}
	if jsonFloat.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return ast.Float(f, mark), nil
		}
	}
	return nil, &Error{Text: text, Mark: mark}
}

func resolveCore(text string, mark token.Mark) *ast.Value {
	switch {
	case coreNull[text]:
		return ast.Null(mark)
	case coreTrue[text]:
		return ast.Bool(true, mark)
	case coreFalse[text]:
		return ast.Bool(false, mark)
	case coreInfPos[text]:
		return ast.Float(math.Inf(1), mark)
	case coreInfNeg[text]:
		return ast.Float(math.Inf(-1), mark)
	case coreNaN[text]:
		return ast.Float(math.NaN(), mark)
	}
	if coreOctal.MatchString(text) {
		clean := strings.Replace(text, "o", "", 1)
		if n, err := strconv.ParseInt(clean, 8, 64); err == nil {
			return ast.Int(n, mark)
		}
	}
	if coreHex.MatchString(text) {
		sign := ""
		body := text
		if body[0] == '+' || body[0] == '-' {
			sign, body = string(body[0]), body[1:]
		}
		if n, err := strconv.ParseInt(sign+body[2:], 16, 64); err == nil {
			return ast.Int(n, mark)
		}
	}
	if coreInt.MatchString(text) {
		clean := strings.ReplaceAll(text, "_", "")
		if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
			return ast.Int(n, mark)
		}
		if bi, ok := new(big.Int).SetString(clean, 10); ok {
			return ast.BigInt(bi, mark)
		}
	}
	if coreFloat.MatchString(text) && strings.ContainsAny(text, ".eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return ast.Float(f, mark)
		}
	}
	return ast.String(text, mark)
}

// TagFor returns the canonical schema tag URI for an explicit shorthand tag
// such as "!!str" or "!!int", or "" if it is not one of the standard
// !!-prefixed tags (in which case the caller treats it as an application
// tag and leaves resolution to the loader's Tagged wrapper).
func TagFor(shorthand string) string {
	switch shorthand {
	case "!!null":
		return "tag:yaml.org,2002:null"
	case "!!bool":
		return "tag:yaml.org,2002:bool"
	case "!!int":
		return "tag:yaml.org,2002:int"
	case "!!float":
		return "tag:yaml.org,2002:float"
	case "!!str":
		return "tag:yaml.org,2002:str"
	case "!!seq":
		return "tag:yaml.org,2002:seq"
	case "!!map":
		return "tag:yaml.org,2002:map"
	case "!!binary":
		return "tag:yaml.org,2002:binary"
	case "!!omap":
		return "tag:yaml.org,2002:omap"
	case "!!set":
		return "tag:yaml.org,2002:set"
	case "!!merge":
		return "tag:yaml.org,2002:merge"
	}
	return ""
}
