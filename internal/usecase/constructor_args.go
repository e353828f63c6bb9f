package usecase

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EncodeConstructorArgs converts plan arguments to the constructor's input
// types and ABI-encodes them. References ("@id") are looked up in addresses.
func EncodeConstructorArgs(factory *models.ContractFactory, args []string, addresses map[string]common.Address) ([]byte, error) {
	var inputs abi.Arguments
	if factory.ABI != nil {
		inputs = factory.ABI.Constructor.Inputs
	}

	if len(inputs) != len(args) {
		return nil, fmt.Errorf("%s constructor takes %d arguments, plan gives %d", factory.Name, len(inputs), len(args))
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := convertArg(input.Type, args[i], addresses)
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		values[i] = v
	}

	encoded, err := factory.ABI.Pack("", values...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack constructor arguments: %w", err)
	}
	return encoded, nil
}

func convertArg(t abi.Type, raw string, addresses map[string]common.Address) (any, error) {
	raw = strings.TrimSpace(raw)

	if ref, ok := domain.ParseRef(raw); ok {
		addr, found := addresses[ref]
		if !found {
			return nil, fmt.Errorf("reference %q has no deployed address", ref)
		}
		if t.T != abi.AddressTy {
			return nil, fmt.Errorf("reference %q used for non-address type", ref)
		}
		return addr, nil
	}

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, raw)
		}
		return common.HexToAddress(raw), nil

	case abi.BoolTy:
		return strconv.ParseBool(raw)

	case abi.StringTy:
		return raw, nil

	case abi.BytesTy:
		return hexutil.Decode(raw)

	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.UintTy, abi.IntTy:
		return convertInteger(t, raw)
	}

	return nil, fmt.Errorf("unsupported constructor argument type %s", t.String())
}

// convertInteger returns the Go type go-ethereum's packer expects for the
// given width: native ints up to 64 bits, *big.Int above.
func convertInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", raw)
	}

	signed := t.T == abi.IntTy
	bits := t.Size
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s overflows int%d", raw, bits)
		}
	} else if n.BitLen() > bits {
		return nil, fmt.Errorf("value %s overflows uint%d", raw, bits)
	}

	switch {
	case bits == 8 && signed:
		return int8(n.Int64()), nil
	case bits == 16 && signed:
		return int16(n.Int64()), nil
	case bits == 32 && signed:
		return int32(n.Int64()), nil
	case bits == 64 && signed:
		return n.Int64(), nil
	case bits == 8:
		return uint8(n.Uint64()), nil
	case bits == 16:
		return uint16(n.Uint64()), nil
	case bits == 32:
		return uint32(n.Uint64()), nil
	case bits == 64:
		return n.Uint64(), nil
	}
	return n, nil
}

// ParseWei parses a decimal or 0x-prefixed wei amount; empty means zero.
func ParseWei(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid wei amount %q", raw)
	}
	return n, nil
}
