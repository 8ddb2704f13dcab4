package value

import (
	"fmt"
	"math"
	"math/big"
)

// toIntOperand requires an Int operand for bitwise operators; BigInt/Float/
// Decimal bit operations are out of scope for JEXL's bitwise family, which
// mirrors the host language's int-only `& | ^ << >> >>>` operators.
func toIntOperand(v Value, op string) (int64, error) {
	i, ok := v.(Int)
	if !ok {
		return 0, fmt.Errorf("operator %s requires integer operands, got %s", op, v.Kind())
	}
	return i.Value, nil
}

// BitAnd, BitOr, BitXor, Shl, Shr, Ashr implement `& | ^ << >> >>>`.
func (a *Arithmetic) BitAnd(l, r Value) (Value, error) {
	li, err := toIntOperand(l, "&")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, "&")
	if err != nil {
		return nil, err
	}
	return Int{Value: li & ri}, nil
}

func (a *Arithmetic) BitOr(l, r Value) (Value, error) {
	li, err := toIntOperand(l, "|")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, "|")
	if err != nil {
		return nil, err
	}
	return Int{Value: li | ri}, nil
}

func (a *Arithmetic) BitXor(l, r Value) (Value, error) {
	li, err := toIntOperand(l, "^")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, "^")
	if err != nil {
		return nil, err
	}
	return Int{Value: li ^ ri}, nil
}

func (a *Arithmetic) Shl(l, r Value) (Value, error) {
	li, err := toIntOperand(l, "<<")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, "<<")
	if err != nil {
		return nil, err
	}
	return Int{Value: li << uint(ri&63)}, nil
}

func (a *Arithmetic) Shr(l, r Value) (Value, error) {
	li, err := toIntOperand(l, ">>")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, ">>")
	if err != nil {
		return nil, err
	}
	return Int{Value: li >> uint(ri&63)}, nil
}

// Ashr implements `>>>`, the logical (zero-fill) right shift.
func (a *Arithmetic) Ashr(l, r Value) (Value, error) {
	li, err := toIntOperand(l, ">>>")
	if err != nil {
		return nil, err
	}
	ri, err := toIntOperand(r, ">>>")
	if err != nil {
		return nil, err
	}
	return Int{Value: int64(uint64(li) >> uint(ri&63))}, nil
}

// BitNot implements unary `~`.
func (a *Arithmetic) BitNot(v Value) (Value, error) {
	i, err := toIntOperand(v, "~")
	if err != nil {
		return nil, err
	}
	return Int{Value: ^i}, nil
}

// Neg implements unary `-` over the numeric tower.
func (a *Arithmetic) Neg(v Value) (Value, error) {
	switch t := v.(type) {
	case Int:
		if t.Value == math.MinInt64 {
			return BigInt{Value: new(big.Int).Neg(big.NewInt(t.Value))}, nil
		}
		return Int{Value: -t.Value}, nil
	case Float:
		return Float{Value: -t.Value}, nil
	case BigInt:
		return BigInt{Value: new(big.Int).Neg(t.Value)}, nil
	case Decimal:
		return Decimal{Value: t.Value.Neg()}, nil
	}
	return nil, fmt.Errorf("operator unary - is not defined for %s", v.Kind())
}
