// Package delegation encodes, decodes and hashes the delegations carried in a
// permission context.
package delegation

import (
	"math/big"

	"github.com/cyphera/gator-permissions/internal/apperror"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RootAuthority marks a delegation that is not derived from a parent delegation
var RootAuthority = common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

var (
	// DelegationTypeHash is the EIP-712 type hash of Delegation
	DelegationTypeHash = crypto.Keccak256Hash([]byte("Delegation(address delegate,address delegator,bytes32 authority,Caveat[] caveats,uint256 salt)Caveat(address enforcer,bytes terms)"))
	// CaveatTypeHash is the EIP-712 type hash of Caveat
	CaveatTypeHash = crypto.Keccak256Hash([]byte("Caveat(address enforcer,bytes terms)"))
)

// Caveat restricts how a delegation may be redeemed
type Caveat struct {
	Enforcer common.Address `json:"enforcer"`
	Terms    hexutil.Bytes  `json:"terms"`
	// Args are supplied at redemption time and are not part of the hash
	Args hexutil.Bytes `json:"args"`
}

// Delegation transfers authority from Delegator to Delegate
type Delegation struct {
	Delegate  common.Address `json:"delegate"`
	Delegator common.Address `json:"delegator"`
	Authority common.Hash    `json:"authority"`
	Caveats   []Caveat       `json:"caveats"`
	Salt      *big.Int       `json:"salt"`
	Signature hexutil.Bytes  `json:"signature"`
}

// IsSigned reports whether the delegation carries a signature
func (d *Delegation) IsSigned() bool {
	return len(d.Signature) > 0
}

// IsRoot reports whether the delegation is a root delegation
func (d *Delegation) IsRoot() bool {
	return d.Authority == RootAuthority
}

// Hash returns the EIP-712 struct hash of the delegation. The signature and caveat
// args are not covered.
func Hash(d Delegation) common.Hash {
	caveatHashes := make([]byte, 0, len(d.Caveats)*common.HashLength)
	for _, caveat := range d.Caveats {
		caveatHashes = append(caveatHashes, hashCaveat(caveat).Bytes()...)
	}

	salt := d.Salt
	if salt == nil {
		salt = new(big.Int)
	}

	return crypto.Keccak256Hash(
		DelegationTypeHash.Bytes(),
		common.LeftPadBytes(d.Delegate.Bytes(), 32),
		common.LeftPadBytes(d.Delegator.Bytes(), 32),
		d.Authority.Bytes(),
		crypto.Keccak256(caveatHashes),
		common.LeftPadBytes(salt.Bytes(), 32),
	)
}

func hashCaveat(c Caveat) common.Hash {
	return crypto.Keccak256Hash(
		CaveatTypeHash.Bytes(),
		common.LeftPadBytes(c.Enforcer.Bytes(), 32),
		crypto.Keccak256(c.Terms),
	)
}

type encodedCaveat struct {
	Enforcer common.Address
	Terms    []byte
	Args     []byte
}

type encodedDelegation struct {
	Delegate  common.Address
	Delegator common.Address
	Authority [32]byte
	Caveats   []encodedCaveat
	Salt      *big.Int
	Signature []byte
}

var delegationsArguments = func() abi.Arguments {
	delegationsType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "delegate", Type: "address"},
		{Name: "delegator", Type: "address"},
		{Name: "authority", Type: "bytes32"},
		{Name: "caveats", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "enforcer", Type: "address"},
			{Name: "terms", Type: "bytes"},
			{Name: "args", Type: "bytes"},
		}},
		{Name: "salt", Type: "uint256"},
		{Name: "signature", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: delegationsType}}
}()

// EncodeContext ABI-encodes signed delegations into a 0x-prefixed permission context
func EncodeContext(delegations []Delegation) (string, error) {
	encoded := make([]encodedDelegation, 0, len(delegations))
	for i, d := range delegations {
		if !d.IsSigned() {
			return "", apperror.InvalidInput("delegation %d is not signed", i)
		}
		salt := d.Salt
		if salt == nil {
			salt = new(big.Int)
		}
		if salt.Sign() < 0 {
			return "", apperror.InvalidInput("delegation %d has a negative salt", i)
		}
		caveats := make([]encodedCaveat, 0, len(d.Caveats))
		for _, c := range d.Caveats {
			caveats = append(caveats, encodedCaveat{
				Enforcer: c.Enforcer,
				Terms:    nonNil(c.Terms),
				Args:     nonNil(c.Args),
			})
		}
		encoded = append(encoded, encodedDelegation{
			Delegate:  d.Delegate,
			Delegator: d.Delegator,
			Authority: d.Authority,
			Caveats:   caveats,
			Salt:      salt,
			Signature: d.Signature,
		})
	}

	out, err := delegationsArguments.Pack(encoded)
	if err != nil {
		return "", apperror.Wrap(apperror.KindInternal, err, "failed to encode delegations")
	}
	return hexutil.Encode(out), nil
}

// DecodeContext decodes a permission context into its delegations
func DecodeContext(permissionContext string) (delegations []Delegation, err error) {
	defer func() {
		if r := recover(); r != nil {
			delegations = nil
			err = apperror.InvalidInput("permission context is not a delegation list: %v", r)
		}
	}()

	raw, err := hexutil.Decode(permissionContext)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidInput, err, "permission context is not valid hex")
	}

	values, err := delegationsArguments.Unpack(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidInput, err, "permission context is not a delegation list")
	}
	if len(values) != 1 {
		return nil, apperror.InvalidInput("unexpected permission context layout")
	}

	decoded := *abi.ConvertType(values[0], new([]encodedDelegation)).(*[]encodedDelegation)

	delegations = make([]Delegation, 0, len(decoded))
	for _, d := range decoded {
		caveats := make([]Caveat, 0, len(d.Caveats))
		for _, c := range d.Caveats {
			caveats = append(caveats, Caveat{Enforcer: c.Enforcer, Terms: c.Terms, Args: c.Args})
		}
		delegations = append(delegations, Delegation{
			Delegate:  d.Delegate,
			Delegator: d.Delegator,
			Authority: common.Hash(d.Authority),
			Caveats:   caveats,
			Salt:      d.Salt,
			Signature: d.Signature,
		})
	}
	return delegations, nil
}

// ObjectKey derives the storage key of a permission context: the hex encoding of the
// concatenated delegation hashes, in context order.
func ObjectKey(permissionContext string) (string, error) {
	delegations, err := DecodeContext(permissionContext)
	if err != nil {
		return "", err
	}
	if len(delegations) == 0 {
		return "", apperror.InvalidInput("permission context contains no delegations")
	}

	key := make([]byte, 0, len(delegations)*common.HashLength)
	for _, d := range delegations {
		key = append(key, Hash(d).Bytes()...)
	}
	return hexutil.Encode(key), nil
}

// Single decodes a context that must hold exactly one delegation
func Single(permissionContext string) (*Delegation, error) {
	delegations, err := DecodeContext(permissionContext)
	if err != nil {
		return nil, err
	}
	switch len(delegations) {
	case 0:
		return nil, apperror.InvalidInput("permission context contains no delegations")
	case 1:
		return &delegations[0], nil
	default:
		return nil, apperror.InvalidInput("permission context contains %d delegations, expected 1", len(delegations))
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
