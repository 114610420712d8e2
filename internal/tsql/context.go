package tsql

import (
	"strings"

	"github.com/funvibe/schemalang/internal/formatter"
	"github.com/funvibe/schemalang/internal/naming"
	"github.com/funvibe/schemalang/internal/semantics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// Parameters carries the emission settings shared by every function of one
// compilation.
type Parameters struct {
	Schema     string
	IndentSize int
}

// functionContext is the per-function emission state: the uniquer every
// generated name goes through, the lazily built object and result names, and
// the pre-calculated call scope. Owned by one emission, never shared.
type functionContext struct {
	function   *semantics.FunctionDefinition
	modulePath []string
	params     Parameters

	names              *naming.NameUniquer
	functionName       string
	resultVariableName string

	// tempVarsScope holds the temporaries allocated by pre-call lifting;
	// they drain into the surrounding block at statement boundaries.
	tempVarsScope *semantics.Scope
	preCalcCalls  []string
}

func newFunctionContext(function *semantics.FunctionDefinition, modulePath []string, params Parameters) *functionContext {
	return &functionContext{
		function:      function,
		modulePath:    modulePath,
		params:        params,
		names:         naming.NewNameUniquer(),
		tempVarsScope: function.Context.Root().Child(),
	}
}

// makeFunctionName builds the emitted object name: module path segments plus
// the function name, `::`-joined. Memoized.
func (c *functionContext) makeFunctionName() string {
	if c.functionName == "" {
		segments := append(append([]string(nil), c.modulePath...), c.function.Name)
		c.functionName = strings.Join(segments, "::")
	}
	return c.functionName
}

// makeResultVariableName reserves the result slot name on first use.
func (c *functionContext) makeResultVariableName() string {
	if c.resultVariableName == "" {
		c.resultVariableName = c.names.AddName("return_value")
	}
	return c.resultVariableName
}

func (c *functionContext) makeResultVariablePrefix() typesystem.Path {
	return typesystem.NewPath(c.makeResultVariableName())
}

// addPreCalcCall allocates a fresh temporary for a lifted call, renders its
// declaration plus the call writing into it, and returns the temporary. The
// rendered text queues up until the enclosing statement boundary.
func (c *functionContext) addPreCalcCall(function *semantics.Item, arguments []*semantics.Expression, e *emitter) (*semantics.Variable, error) {
	inner, ok := function.GetFunction()
	if !ok {
		return nil, errNotAFunction
	}
	resultName := c.names.AddName("t")
	variable, dupErr := c.tempVarsScope.NewVariable(c.function.Pos, resultName, inner.Result)
	if dupErr != nil {
		// The uniquer hands out fresh names, so this cannot collide.
		return nil, dupErr
	}
	variable.MakeReadOnly()
	variable.MarkAsAutomatic()

	var buffer strings.Builder
	code := formatter.NewCodeFormatter(&buffer)
	code.IndentSize = c.params.IndentSize
	block := code.RootBlock()
	e.emitVariableDeclaration(block, variable)
	if err := e.emitPreCall(block, variable, function, inner, arguments); err != nil {
		return nil, err
	}
	if err := code.Err(); err != nil {
		return nil, err
	}
	c.preCalcCalls = append(c.preCalcCalls, buffer.String())
	return variable, nil
}

// drainPreCalcCalls hands out and clears the queued pre-call blocks.
func (c *functionContext) drainPreCalcCalls() []string {
	out := c.preCalcCalls
	c.preCalcCalls = nil
	return out
}
