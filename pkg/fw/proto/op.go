package proto

// Family identifies a command family selected by the first byte of a
// command. The wire encodes families as ASCII digits; the numeric
// encoding is not part of this API.
type Family int

// Enumerated command families.
const (
	FamilyNone Family = iota
	FamilyPinMode
	FamilyDigitalRead
	FamilyDigitalWrite
	FamilyAnalogRead
	FamilyAnalogWrite
	FamilyEncoder
	FamilyMotor
	FamilyLoadCell
	FamilyScriptType
)

// classify maps the first byte of a command to its family.
// FamilyNone means the byte selects no enumerated family.
func classify(b byte) Family {
	switch b {
	case '0':
		return FamilyPinMode
	case '1':
		return FamilyDigitalRead
	case '2':
		return FamilyDigitalWrite
	case '3':
		return FamilyAnalogRead
	case '4':
		return FamilyAnalogWrite
	case '5':
		return FamilyEncoder
	case '6':
		return FamilyMotor
	case '7':
		return FamilyLoadCell
	case '9':
		return FamilyScriptType
	}
	return FamilyNone
}

// OpKind identifies a completed operation.
type OpKind int

// Operations produced by the parser.
const (
	OpPinMode OpKind = iota
	OpDigitalRead
	OpDigitalWrite
	OpAnalogRead
	OpAnalogWrite
	OpEncoderPosition
	OpEncoderVelocity
	OpEncoderRawVelocity
	OpEncoderReset
	OpMotorDrive
	OpLoadCellRead
	OpScriptType
)

// MotorChannel identifies a motor drive channel.
type MotorChannel int

// Motor drive channels.
const (
	MotorA MotorChannel = iota
	MotorB
)

// Op is a completed operation decoded from the command stream.
// Fields beyond Kind are meaningful only for the kinds that use them.
type Op struct {
	Kind OpKind

	// Pin is the decoded pin index (digital pin number, or analog
	// channel for OpAnalogRead).
	Pin int

	// Value carries the payload: 0/1 for OpPinMode and OpDigitalWrite,
	// a raw 0..255 level for OpAnalogWrite and OpMotorDrive.
	Value int

	// Motor fields for OpMotorDrive.
	Channel MotorChannel
	Forward bool
}

// Pin letter encoding: ASCII value minus 'a' gives the pin index.
const (
	pinLetterBase = 'a'

	digitalPinMin = 'c' // pin 2
	digitalPinMax = 't' // pin 19

	analogPinMin = 'a' // channel 0
	analogPinMax = 'f' // channel 5
)

// DigitalPinLetter returns the wire byte selecting digital pin index n,
// or 0 if the pin is outside the accepted range.
func DigitalPinLetter(n int) byte {
	b := byte(n) + pinLetterBase
	if n < 0 || b < digitalPinMin || b > digitalPinMax {
		return 0
	}
	return b
}

// AnalogPinLetter returns the wire byte selecting analog channel n,
// or 0 if the channel is outside the accepted range.
func AnalogPinLetter(n int) byte {
	b := byte(n) + pinLetterBase
	if n < 0 || b < analogPinMin || b > analogPinMax {
		return 0
	}
	return b
}

// Encoder query discriminators.
const (
	EncoderSelPosition    = 'a'
	EncoderSelVelocity    = 'b'
	EncoderSelRawVelocity = 'c'
	EncoderSelReset       = 'd'
)

// Motor drive discriminators.
const (
	MotorSelAForward  = 'a'
	MotorSelBForward  = 'b'
	MotorSelABackward = 'c'
	MotorSelBBackward = 'd'
)

// ScriptTypeSel is the only discriminator accepted by the script-type
// query; the reply identifies this command profile.
const ScriptTypeSel = '9'

// Family selector bytes, exported for host-side encoding.
const (
	SelPinMode      = '0'
	SelDigitalRead  = '1'
	SelDigitalWrite = '2'
	SelAnalogRead   = '3'
	SelAnalogWrite  = '4'
	SelEncoder      = '5'
	SelMotor        = '6'
	SelLoadCell     = '7'
	SelScriptType   = '9'
)
