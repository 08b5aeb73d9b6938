// Package filter translates AIP-160 creature filters into SQL conditions.
package filter

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Condition is a SQL WHERE fragment with positional parameters.
type Condition struct {
	Clause string
	Params []any
}

// columns maps filter identifiers to catalog columns.
var columns = map[string]string{
	"name":        "name",
	"num":         "num",
	"egg":         "egg",
	"weight":      "weight_value",
	"height":      "height_value",
	"candy_count": "candy_count",
}

// Declarations returns the identifiers a creature filter may reference.
func Declarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("name", filtering.TypeString),
		filtering.DeclareIdent("num", filtering.TypeString),
		filtering.DeclareIdent("egg", filtering.TypeString),
		filtering.DeclareIdent("weight", filtering.TypeFloat),
		filtering.DeclareIdent("height", filtering.TypeFloat),
		filtering.DeclareIdent("candy_count", filtering.TypeInt),
	)
}

// Parse parses an AIP-160 expression such as
//
//	weight >= 6.5 AND name = "Pika*"
//
// A trailing "*" on a string compared with "=" matches by prefix. An empty
// expression yields an empty Condition. Failures carry CodeFilterInvalid.
func Parse(filter string) (Condition, error) {
	if strings.TrimSpace(filter) == "" {
		return Condition{}, nil
	}

	decls, err := Declarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}
	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return Condition{}, invalid(filter, err)
	}
	cond, err := translateExpr(parsed.CheckedExpr.GetExpr())
	if err != nil {
		return Condition{}, invalid(filter, err)
	}
	return cond, nil
}

func invalid(filter string, cause error) error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeFilterInvalid,
		fmt.Sprintf("invalid filter %q: %v", filter, cause),
		map[string]string{"Filter": filter},
		cause,
	)
}

func translateExpr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, fmt.Errorf("empty expression")
	}
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return Condition{}, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}

	switch fn := call.CallExpr.GetFunction(); fn {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd:
		return translateJunction(call.CallExpr.GetArgs(), "AND")
	case filtering.FunctionOr:
		return translateJunction(call.CallExpr.GetArgs(), "OR")
	case filtering.FunctionNot:
		args := call.CallExpr.GetArgs()
		if len(args) != 1 {
			return Condition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := translateExpr(args[0])
		if err != nil {
			return Condition{}, err
		}
		return Condition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
	case filtering.FunctionEquals,
		filtering.FunctionNotEquals,
		filtering.FunctionLessThan,
		filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan,
		filtering.FunctionGreaterEquals:
		return translateComparison(call.CallExpr.GetArgs(), fn)
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", fn)
	}
}

func translateJunction(args []*expr.Expr, op string) (Condition, error) {
	if len(args) < 2 {
		return Condition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}
	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := translateExpr(arg)
		if err != nil {
			return Condition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}
	return Condition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func translateComparison(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return Condition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	column, ok := columns[ident.IdentExpr.GetName()]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}
	value, err := constValue(args[1])
	if err != nil {
		return Condition{}, err
	}

	if s, ok := value.(string); ok && op == filtering.FunctionEquals && strings.HasSuffix(s, "*") {
		prefix := strings.TrimSuffix(s, "*")
		return Condition{
			Clause: column + ` LIKE ? ESCAPE '\'`,
			Params: []any{escapeLike(prefix) + "%"},
		}, nil
	}
	return Condition{Clause: column + " " + op + " ?", Params: []any{value}}, nil
}

func constValue(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
