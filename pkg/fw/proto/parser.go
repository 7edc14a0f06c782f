package proto

// Parser assembles commands from bytes received one at a time.
// The zero value is an idle parser.
type Parser struct {
	state   parseState
	family  Family
	pin     int
	channel MotorChannel
	forward bool
}

type parseState int

const (
	stateIdle     parseState = iota
	statePin                 // waiting for pin letter
	stateBoolVal             // waiting for '0'/'1' payload
	stateRawVal              // waiting for raw byte payload
	stateEncSel              // waiting for encoder discriminator
	stateMotorSel            // waiting for motor discriminator
	stateMotorPWM            // waiting for motor PWM byte
	stateTypeSel             // waiting for script-type discriminator
)

// ParseResult indicates the result after consuming one byte.
type ParseResult struct {
	// Op is the completed operation. It is nil while a command is still
	// being assembled, when a byte was rejected, and when a command
	// completed with nothing to do.
	Op *Op

	// Rejected indicates the byte fell outside the grammar and the
	// command in progress, if any, was abandoned. The caller must not
	// produce any reply or side effect for a rejected byte.
	Rejected bool
}

// Pending indicates a partially received command. A command may stay
// half-received indefinitely; there is no timeout.
func (p *Parser) Pending() bool {
	return p.state != stateIdle
}

// Reset abandons any command in progress.
func (p *Parser) Reset() {
	p.state = stateIdle
}

// Parse consumes one byte and advances the command state machine.
// Every reachable path returns to idle after at most 3 bytes.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	switch p.state {
	case stateIdle:
		return p.parseSelector(b)

	case statePin:
		pin, ok := p.pinIndex(b)
		if !ok {
			return p.reject()
		}
		p.pin = pin
		switch p.family {
		case FamilyDigitalRead:
			return p.done(&Op{Kind: OpDigitalRead, Pin: pin})
		case FamilyAnalogRead:
			return p.done(&Op{Kind: OpAnalogRead, Pin: pin})
		case FamilyPinMode, FamilyDigitalWrite:
			p.state = stateBoolVal
		case FamilyAnalogWrite:
			p.state = stateRawVal
		}

	case stateBoolVal:
		// Only '0' and '1' carry a payload. Any other byte completes
		// the command with no action and no reply.
		if b != '0' && b != '1' {
			return p.done(nil)
		}
		val := int(b - '0')
		if p.family == FamilyPinMode {
			return p.done(&Op{Kind: OpPinMode, Pin: p.pin, Value: val})
		}
		return p.done(&Op{Kind: OpDigitalWrite, Pin: p.pin, Value: val})

	case stateRawVal:
		return p.done(&Op{Kind: OpAnalogWrite, Pin: p.pin, Value: int(b)})

	case stateEncSel:
		switch b {
		case EncoderSelPosition:
			return p.done(&Op{Kind: OpEncoderPosition})
		case EncoderSelVelocity:
			return p.done(&Op{Kind: OpEncoderVelocity})
		case EncoderSelRawVelocity:
			return p.done(&Op{Kind: OpEncoderRawVelocity})
		case EncoderSelReset:
			return p.done(&Op{Kind: OpEncoderReset})
		}
		// Unrecognized discriminators complete with no output.
		return p.done(nil)

	case stateMotorSel:
		switch b {
		case MotorSelAForward:
			p.channel, p.forward = MotorA, true
		case MotorSelBForward:
			p.channel, p.forward = MotorB, true
		case MotorSelABackward:
			p.channel, p.forward = MotorA, false
		case MotorSelBBackward:
			p.channel, p.forward = MotorB, false
		default:
			return p.reject()
		}
		p.state = stateMotorPWM

	case stateMotorPWM:
		return p.done(&Op{
			Kind:    OpMotorDrive,
			Value:   int(b),
			Channel: p.channel,
			Forward: p.forward,
		})

	case stateTypeSel:
		if b == ScriptTypeSel {
			return p.done(&Op{Kind: OpScriptType})
		}
		return p.done(nil)
	}
	return
}

func (p *Parser) parseSelector(b byte) (pr ParseResult) {
	family := classify(b)
	switch family {
	case FamilyNone:
		return p.reject()
	case FamilyLoadCell:
		return p.done(&Op{Kind: OpLoadCellRead})
	case FamilyEncoder:
		p.state = stateEncSel
	case FamilyMotor:
		p.state = stateMotorSel
	case FamilyScriptType:
		p.state = stateTypeSel
	default:
		p.state = statePin
	}
	p.family = family
	return
}

func (p *Parser) pinIndex(b byte) (int, bool) {
	min, max := byte(digitalPinMin), byte(digitalPinMax)
	if p.family == FamilyAnalogRead {
		min, max = analogPinMin, analogPinMax
	}
	if b < min || b > max {
		return 0, false
	}
	return int(b - pinLetterBase), true
}

func (p *Parser) done(op *Op) ParseResult {
	p.state = stateIdle
	return ParseResult{Op: op}
}

func (p *Parser) reject() ParseResult {
	p.state = stateIdle
	return ParseResult{Rejected: true}
}
