package commands

// ParseOperand exports parseOperand for testing.
var ParseOperand = parseOperand //nolint:gochecknoglobals // test export

// Operand exports operand for testing.
type Operand = operand

// OperandRev returns the revision of an operand.
func OperandRev(op Operand) string { return op.rev }

// OperandPath returns the path of an operand.
func OperandPath(op Operand) string { return op.path }
