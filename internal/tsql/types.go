package tsql

import (
	"fmt"

	"github.com/funvibe/schemalang/internal/typesystem"
)

// TypeName maps a primitive to its T-SQL type. Unsigned integers map to the
// next wider signed type that contains their range; u64 gets numeric(20,0).
func TypeName(p *typesystem.Primitive) string {
	switch p.Kind {
	case typesystem.Boolean:
		return "bit"
	case typesystem.I8:
		return "tinyint"
	case typesystem.I16:
		return "smallint"
	case typesystem.I32:
		return "int"
	case typesystem.I64:
		return "bigint"
	case typesystem.U8:
		return "smallint"
	case typesystem.U16:
		return "int"
	case typesystem.U32:
		return "bigint"
	case typesystem.U64:
		return "numeric(20, 0)"
	case typesystem.F32:
		return "real"
	case typesystem.F64:
		return "float"
	case typesystem.DecimalKind:
		return fmt.Sprintf("decimal(%d, %d)", p.Precision, p.Scale)
	case typesystem.VarcharKind:
		return fmt.Sprintf("varchar(%d)", p.Length)
	case typesystem.DateTime:
		return "datetime2"
	}
	return "sql_variant"
}
