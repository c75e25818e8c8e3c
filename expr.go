package docweaver

import (
	"fmt"
	"go/token"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"
)

// exprResult is the template global an expression is assigned to. The
// leading underscore keeps it clear of keyword names.
const exprResult = "_result"

// EvalExpr evaluates src as a Scriggo expression with the keywords in scope
// and returns the result with its Go type. Numeric, string and boolean
// keywords are untyped constants, so "a / 2.0" and "a + 1" mix freely.
func EvalExpr(src string, kw Keywords) (any, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty expression")
	}
	var result any
	globals := keywordGlobals(kw)
	globals[exprResult] = &result
	fsys := scriggo.Files{"expr.txt": []byte("{% " + exprResult + " = (" + src + ") %}")}
	tmpl, err := scriggo.BuildTemplate(fsys, "expr.txt", &scriggo.BuildOptions{Globals: globals})
	if err != nil {
		return nil, err
	}
	if err := tmpl.Run(io.Discard, nil, nil); err != nil {
		return nil, err
	}
	return result, nil
}

// RenderText renders src as a Scriggo text template with the keywords in
// scope, as in "{{ n }} items".
func RenderText(src string, kw Keywords) (string, error) {
	fsys := scriggo.Files{"text.txt": []byte(src)}
	tmpl, err := scriggo.BuildTemplate(fsys, "text.txt", &scriggo.BuildOptions{Globals: keywordGlobals(kw)})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Run(&b, nil, nil); err != nil {
		return "", err
	}
	return b.String(), nil
}

// keywordGlobals declares every keyword whose name is an identifier.
func keywordGlobals(kw Keywords) native.Declarations {
	globals := make(native.Declarations, len(kw)+1)
	for name, v := range kw {
		if !token.IsIdentifier(name) || name == exprResult {
			continue
		}
		if d, ok := declaration(v); ok {
			globals[name] = d
		}
	}
	return globals
}

func declaration(v any) (native.Declaration, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case bool:
		return native.UntypedBooleanConst(x), true
	case string:
		return native.UntypedStringConst(x), true
	case int:
		return native.UntypedNumericConst(strconv.Itoa(x)), true
	case int64:
		return native.UntypedNumericConst(strconv.FormatInt(x, 10)), true
	case uint64:
		return native.UntypedNumericConst(strconv.FormatUint(x, 10)), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			break
		}
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return native.UntypedNumericConst(s), true
	}
	// Anything else is a variable of its own type.
	p := reflect.New(reflect.TypeOf(v))
	p.Elem().Set(reflect.ValueOf(v))
	return p.Interface(), true
}
