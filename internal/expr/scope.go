package expr

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/Shopify/go-lua"
)

// maxTableDepth bounds conversion of nested (or self-referencing) Lua tables.
const maxTableDepth = 32

// maxSparseGap bounds how far past its entry count a sparse table may reach
// and still read back as a list.
const maxSparseGap = 64

// ExpressionError reports a failure to compile or run a story expression.
type ExpressionError struct {
	Source string
	Err    error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression %q failed: %v", e.Source, e.Err)
}

func (e *ExpressionError) Unwrap() error {
	return e.Err
}

// Scope is a Lua environment bound to a snapshot of session variables.
// Each variable is exposed as a global. A Scope is single-use per operation
// and is not safe for concurrent use.
type Scope struct {
	l        *lua.State
	baseline map[string]bool
	keys     []string
	bound    map[string]any
	// pristine holds each bound variable as it reads back from Lua before any statement runs.
	pristine map[string]any
}

// NewScope creates a sandboxed Lua environment (base, string, table and math
// libraries only) and binds every variable as a global.
func NewScope(vars map[string]any) (*Scope, error) {
	l := lua.NewState()
	for _, lib := range []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "math", Function: lua.MathOpen},
	} {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, unsafe := range []string{"dofile", "loadfile"} {
		l.PushNil()
		l.SetGlobal(unsafe)
	}

	s := &Scope{
		l:        l,
		baseline: make(map[string]bool),
		bound:    vars,
		pristine: make(map[string]any, len(vars)),
	}
	for _, name := range s.globalNames() {
		s.baseline[name] = true
	}

	s.keys = make([]string, 0, len(vars))
	for k := range vars {
		s.keys = append(s.keys, k)
	}
	sort.Strings(s.keys)

	for _, k := range s.keys {
		if err := push(l, vars[k], 0); err != nil {
			l.SetTop(0)
			return nil, fmt.Errorf("failed to bind variable %q: %w", k, err)
		}
		val, _, err := pull(l, -1, 0)
		if err != nil {
			l.SetTop(0)
			return nil, fmt.Errorf("failed to bind variable %q: %w", k, err)
		}
		s.pristine[k] = val
		l.SetGlobal(k)
	}
	return s, nil
}

// Eval evaluates a single expression and returns its value converted to Go.
func (s *Scope) Eval(source string) (any, error) {
	defer s.l.SetTop(0)

	if err := lua.LoadString(s.l, "return "+source); err != nil {
		return nil, s.failure(source, err)
	}
	if err := s.l.ProtectedCall(0, 1, 0); err != nil {
		return nil, s.failure(source, err)
	}
	val, _, err := pull(s.l, -1, 0)
	if err != nil {
		return nil, &ExpressionError{Source: source, Err: err}
	}
	return val, nil
}

// Truthy evaluates an expression with Lua truthiness (only nil and false are false).
func (s *Scope) Truthy(source string) (bool, error) {
	defer s.l.SetTop(0)

	if err := lua.LoadString(s.l, "return "+source); err != nil {
		return false, s.failure(source, err)
	}
	if err := s.l.ProtectedCall(0, 1, 0); err != nil {
		return false, s.failure(source, err)
	}
	return s.l.ToBoolean(-1), nil
}

// Exec runs one or more statements. Assignments to globals are visible
// to later calls on the same Scope and in Snapshot.
func (s *Scope) Exec(source string) error {
	defer s.l.SetTop(0)

	if err := lua.LoadString(s.l, source); err != nil {
		return s.failure(source, err)
	}
	if err := s.l.ProtectedCall(0, 0, 0); err != nil {
		return s.failure(source, err)
	}
	return nil
}

// failure wraps err, preferring the Lua error message left on the stack.
func (s *Scope) failure(source string, err error) error {
	if s.l.Top() > 0 {
		if msg, ok := s.l.ToString(-1); ok && msg != "" {
			err = errors.New(msg)
		}
	}
	return &ExpressionError{Source: source, Err: err}
}

// Snapshot returns the variables currently visible in the scope: every bound
// variable that is still non-nil plus any new global that holds plain data.
// Bound variables the statements left alone are returned as the original Go
// values, nulls included. Functions and other non-data values are skipped.
func (s *Scope) Snapshot() (map[string]any, error) {
	defer s.l.SetTop(0)

	vars := make(map[string]any)
	for _, k := range s.keys {
		if err := s.readGlobal(k, vars); err != nil {
			return nil, err
		}
	}
	for _, name := range s.globalNames() {
		if s.baseline[name] {
			continue
		}
		if _, seen := vars[name]; seen {
			continue
		}
		if err := s.readGlobal(name, vars); err != nil {
			return nil, err
		}
	}
	return vars, nil
}

func (s *Scope) readGlobal(name string, into map[string]any) error {
	s.l.Global(name)
	val, ok, err := pull(s.l, -1, 0)
	s.l.Pop(1)
	if err != nil {
		return fmt.Errorf("variable %q: %w", name, err)
	}

	orig, isBound := s.bound[name]
	if isBound && ok && reflect.DeepEqual(val, s.pristine[name]) {
		into[name] = orig
		return nil
	}
	if !ok || val == nil {
		return nil
	}
	if isBound {
		val = reconcile(orig, val)
	}
	into[name] = val
	return nil
}

// reconcile restores the JSON shape of a changed value where Lua loses it:
// empty arrays read back as empty tables and arrays with nulls as sparse tables.
func reconcile(orig, val any) any {
	switch o := orig.(type) {
	case []any:
		switch v := val.(type) {
		case []any:
			for i := range v {
				if i < len(o) {
					v[i] = reconcile(o[i], v[i])
				}
			}
			return v
		case map[string]any:
			if list, ok := sparseList(v); ok {
				return reconcile(o, list)
			}
		}
	case map[string]any:
		if v, ok := val.(map[string]any); ok {
			for k, item := range v {
				if prev, seen := o[k]; seen {
					v[k] = reconcile(prev, item)
				}
			}
			return v
		}
	}
	return val
}

// sparseList converts a table keyed by positive integers into a list with nil gaps.
// An empty table becomes an empty list.
func sparseList(m map[string]any) ([]any, bool) {
	size := 0
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 1 || i > len(m)*2+maxSparseGap {
			return nil, false
		}
		size = max(size, i)
	}
	list := make([]any, size)
	for k, item := range m {
		i, _ := strconv.Atoi(k)
		list[i-1] = item
	}
	return list, true
}

func (s *Scope) globalNames() []string {
	var names []string
	s.l.PushGlobalTable()
	s.l.PushNil()
	for s.l.Next(-2) {
		if s.l.TypeOf(-2) == lua.TypeString {
			if name, ok := s.l.ToString(-2); ok {
				names = append(names, name)
			}
		}
		s.l.Pop(1)
	}
	s.l.Pop(1)
	return names
}

// push converts a JSON-compatible Go value onto the Lua stack.
func push(l *lua.State, v any, depth int) error {
	if depth > maxTableDepth {
		return fmt.Errorf("value nested deeper than %d levels", maxTableDepth)
	}
	switch val := v.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(val)
	case string:
		l.PushString(val)
	case float64:
		l.PushNumber(val)
	case float32:
		l.PushNumber(float64(val))
	case int:
		l.PushNumber(float64(val))
	case int64:
		l.PushNumber(float64(val))
	case int32:
		l.PushNumber(float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return err
		}
		l.PushNumber(f)
	case []any:
		l.CreateTable(len(val), 0)
		for i, item := range val {
			if err := push(l, item, depth+1); err != nil {
				return err
			}
			l.RawSetInt(-2, i+1)
		}
	case map[string]any:
		l.CreateTable(0, len(val))
		for k, item := range val {
			if err := push(l, item, depth+1); err != nil {
				return err
			}
			l.SetField(-2, k)
		}
	default:
		l.PushString(fmt.Sprint(val))
	}
	return nil
}

// pull converts the Lua value at index into Go.
// ok is false for values that have no data representation (functions, userdata, threads).
func pull(l *lua.State, index int, depth int) (any, bool, error) {
	if depth > maxTableDepth {
		return nil, false, fmt.Errorf("table nested deeper than %d levels", maxTableDepth)
	}
	switch l.TypeOf(index) {
	case lua.TypeNil:
		return nil, true, nil
	case lua.TypeBoolean:
		return l.ToBoolean(index), true, nil
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return n, true, nil
	case lua.TypeString:
		str, _ := l.ToString(index)
		return str, true, nil
	case lua.TypeTable:
		return pullTable(l, l.AbsIndex(index), depth)
	default:
		return nil, false, nil
	}
}

// pullTable converts a table to []any when its keys are exactly 1..n, else to map[string]any.
func pullTable(l *lua.State, index int, depth int) (any, bool, error) {
	entries := make(map[string]any)
	ints := make(map[int]any)
	allInts := true

	l.PushNil()
	for l.Next(index) {
		val, ok, err := pull(l, -1, depth+1)
		if err != nil {
			l.Pop(2)
			return nil, false, err
		}
		if !ok {
			l.Pop(1)
			continue
		}

		var key string
		switch l.TypeOf(-2) {
		case lua.TypeNumber:
			n, _ := l.ToNumber(-2)
			if n == math.Trunc(n) && n >= 1 {
				ints[int(n)] = val
			} else {
				allInts = false
			}
			key = strconv.FormatFloat(n, 'f', -1, 64)
		case lua.TypeString:
			key, _ = l.ToString(-2)
			allInts = false
		default:
			// Only string and number keys have a data representation.
			allInts = false
			l.Pop(1)
			continue
		}
		entries[key] = val
		l.Pop(1)
	}

	if allInts && len(ints) > 0 && len(ints) == len(entries) {
		list := make([]any, 0, len(ints))
		for i := 1; i <= len(ints); i++ {
			item, present := ints[i]
			if !present {
				return entries, true, nil
			}
			list = append(list, item)
		}
		return list, true, nil
	}
	return entries, true, nil
}
