package semantics

import (
	"github.com/funvibe/schemalang/internal/diagnostics"
	"github.com/funvibe/schemalang/internal/typesystem"
)

// Jumping classifies how control leaves a statement.
type Jumping int

const (
	Nothing Jumping = iota
	AlwaysReturns
	AlwaysBreaks
	AlwaysContinues
)

func (j Jumping) String() string {
	switch j {
	case AlwaysReturns:
		return "always returns"
	case AlwaysBreaks:
		return "always breaks"
	case AlwaysContinues:
		return "always continues"
	}
	return "nothing"
}

// Sum combines the classifications of two alternative branches: agreement on
// a definite exit survives, any disagreement degrades to Nothing.
func (j Jumping) Sum(other Jumping) Jumping {
	if j == other {
		return j
	}
	return Nothing
}

// FlowPosition tracks whether the analysis is inside a cycle body.
type FlowPosition struct {
	inCycle bool
}

func NewFlowPosition() FlowPosition {
	return FlowPosition{}
}

// InCycle returns the position entered into a cycle body.
func (p FlowPosition) InCycle() FlowPosition {
	return FlowPosition{inCycle: true}
}

func (p FlowPosition) IsInCycle() bool {
	return p.inCycle
}

// JumpingCheck classifies the statement's exit behavior while verifying
// return-type compatibility, cycle-control placement, and reachability.
// Errors accumulate: independent problems in sibling branches are all
// reported.
func (s *Statement) JumpingCheck(pos FlowPosition, returnType typesystem.DataType) (Jumping, diagnostics.List) {
	switch body := s.Body.(type) {
	case *NothingStmt, *AssignStmt, *ExpressionStmt,
		*SelectStmt, *InsertStmt, *UpdateStmt, *DeleteStmt:
		return Nothing, nil

	case *ConditionStmt:
		thenJumping, errs := body.Then.JumpingCheck(pos, returnType)
		elseJumping := Nothing
		if body.Else != nil {
			j, elseErrs := body.Else.JumpingCheck(pos, returnType)
			errs = append(errs, elseErrs...)
			elseJumping = j
		}
		if len(errs) > 0 {
			return Nothing, errs
		}
		return thenJumping.Sum(elseJumping), nil

	case *CycleStmt:
		// The body may break or continue internally; from the outside the
		// cycle can always fall through, so its classification never leaks.
		_, errs := body.Body.JumpingCheck(pos.InCycle(), returnType)
		if len(errs) > 0 {
			return Nothing, errs
		}
		return Nothing, nil

	case *CycleControlStmt:
		if !pos.IsInCycle() {
			return Nothing, diagnostics.List{
				diagnostics.New(diagnostics.ErrNotAllowedHere, s.Pos, "cycle control operators"),
			}
		}
		if body.Break {
			return AlwaysBreaks, nil
		}
		return AlwaysContinues, nil

	case *ReturnStmt:
		valueType := typesystem.DataType(typesystem.Void)
		if body.Value != nil {
			valueType = body.Value.TypeOf()
		}
		if !typesystem.ShouldCastTo(valueType, returnType) {
			return Nothing, diagnostics.List{
				diagnostics.New(diagnostics.ErrTypeMismatch, s.Pos, valueType.String(), returnType.String()),
			}
		}
		return AlwaysReturns, nil

	case *BlockStmt:
		result := Nothing
		var errs diagnostics.List
		for i, stmt := range body.Statements {
			local, localErrs := stmt.JumpingCheck(pos, returnType)
			if len(localErrs) > 0 {
				errs = append(errs, localErrs...)
				continue
			}
			if local == Nothing {
				if len(errs) == 0 {
					result = result.Sum(local)
				}
				continue
			}
			// Definite exit: anything after it is unreachable.
			if i+1 < len(body.Statements) {
				errs = append(errs, diagnostics.New(
					diagnostics.ErrUnreachableStatement, body.Statements[i+1].Pos))
				return Nothing, errs
			}
			if len(errs) > 0 {
				return Nothing, errs
			}
			return local, nil
		}
		if len(errs) > 0 {
			return Nothing, errs
		}
		return result, nil
	}
	return Nothing, nil
}
