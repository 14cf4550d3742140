package stimulus

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/sarchlab/roccaes/rocc"
)

// KeySizePolicy decides the key size of each round.
type KeySizePolicy int

// Key size policies
const (
	KeySize128 KeySizePolicy = iota
	KeySize256
	KeySizeRandom
)

// ParseKeySizePolicy parses "128", "256" or "random".
func ParseKeySizePolicy(s string) (KeySizePolicy, error) {
	switch strings.ToLower(s) {
	case "128":
		return KeySize128, nil
	case "256":
		return KeySize256, nil
	case "random":
		return KeySizeRandom, nil
	default:
		return 0, fmt.Errorf("unknown key size policy %q", s)
	}
}

func (p KeySizePolicy) String() string {
	switch p {
	case KeySize128:
		return "128"
	case KeySize256:
		return "256"
	case KeySizeRandom:
		return "random"
	default:
		return fmt.Sprintf("KeySizePolicy(%d)", int(p))
	}
}

// Resolve returns the key size in bits.
func (p KeySizePolicy) Resolve(rng *rand.Rand) int {
	switch p {
	case KeySize128:
		return 128
	case KeySize256:
		return 256
	default:
		if rng.Intn(2) == 0 {
			return 128
		}

		return 256
	}
}

// OperationPolicy decides whether a round encrypts or decrypts.
type OperationPolicy int

// Operation policies
const (
	OperationEncrypt OperationPolicy = iota
	OperationDecrypt
	OperationRandom
)

// ParseOperationPolicy parses "encrypt", "decrypt" or "random".
func ParseOperationPolicy(s string) (OperationPolicy, error) {
	switch strings.ToLower(s) {
	case "encrypt":
		return OperationEncrypt, nil
	case "decrypt":
		return OperationDecrypt, nil
	case "random":
		return OperationRandom, nil
	default:
		return 0, fmt.Errorf("unknown operation policy %q", s)
	}
}

func (p OperationPolicy) String() string {
	switch p {
	case OperationEncrypt:
		return "encrypt"
	case OperationDecrypt:
		return "decrypt"
	case OperationRandom:
		return "random"
	default:
		return fmt.Sprintf("OperationPolicy(%d)", int(p))
	}
}

// Resolve returns the direction of the cipher command.
func (p OperationPolicy) Resolve(rng *rand.Rand) rocc.Direction {
	switch p {
	case OperationEncrypt:
		return rocc.Encrypt
	case OperationDecrypt:
		return rocc.Decrypt
	default:
		if rng.Intn(2) == 0 {
			return rocc.Encrypt
		}

		return rocc.Decrypt
	}
}

// InterruptPolicy decides whether the accelerator raises an interrupt when it
// completes, which also selects how the completion is detected.
type InterruptPolicy int

// Interrupt policies
const (
	InterruptEnabled InterruptPolicy = iota
	InterruptDisabled
	InterruptRandom
)

// ParseInterruptPolicy parses "enabled", "disabled" or "random".
func ParseInterruptPolicy(s string) (InterruptPolicy, error) {
	switch strings.ToLower(s) {
	case "enabled", "on":
		return InterruptEnabled, nil
	case "disabled", "off":
		return InterruptDisabled, nil
	case "random":
		return InterruptRandom, nil
	default:
		return 0, fmt.Errorf("unknown interrupt policy %q", s)
	}
}

func (p InterruptPolicy) String() string {
	switch p {
	case InterruptEnabled:
		return "enabled"
	case InterruptDisabled:
		return "disabled"
	case InterruptRandom:
		return "random"
	default:
		return fmt.Sprintf("InterruptPolicy(%d)", int(p))
	}
}

// Resolve tells if the interrupt is enabled.
func (p InterruptPolicy) Resolve(rng *rand.Rand) bool {
	switch p {
	case InterruptEnabled:
		return true
	case InterruptDisabled:
		return false
	default:
		return rng.Intn(2) == 0
	}
}

// DestructivePolicy decides how the destination is pre-filled.
type DestructivePolicy int

// Destructive policies
const (
	Destructive DestructivePolicy = iota
	NonDestructive
	DestructiveRandom
)

// ParseDestructivePolicy parses "destructive", "non-destructive" or "random".
func ParseDestructivePolicy(s string) (DestructivePolicy, error) {
	switch strings.ToLower(s) {
	case "destructive", "true":
		return Destructive, nil
	case "non-destructive", "nondestructive", "false":
		return NonDestructive, nil
	case "random":
		return DestructiveRandom, nil
	default:
		return 0, fmt.Errorf("unknown destructive policy %q", s)
	}
}

func (p DestructivePolicy) String() string {
	switch p {
	case Destructive:
		return "destructive"
	case NonDestructive:
		return "non-destructive"
	case DestructiveRandom:
		return "random"
	default:
		return fmt.Sprintf("DestructivePolicy(%d)", int(p))
	}
}

// Resolve tells if the round is destructive.
func (p DestructivePolicy) Resolve(rng *rand.Rand) bool {
	switch p {
	case Destructive:
		return true
	case NonDestructive:
		return false
	default:
		return rng.Intn(2) == 0
	}
}
