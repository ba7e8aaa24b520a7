package paillier

import (
	"encoding"
	"encoding/json"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

var (
	_ json.Marshaler             = (*PublicKey)(nil)
	_ json.Unmarshaler           = (*PublicKey)(nil)
	_ encoding.BinaryMarshaler   = (*PublicKey)(nil)
	_ encoding.BinaryUnmarshaler = (*PublicKey)(nil)
	_ json.Marshaler             = (*SecretKey)(nil)
	_ json.Unmarshaler           = (*SecretKey)(nil)
	_ encoding.BinaryMarshaler   = (*SecretKey)(nil)
	_ encoding.BinaryUnmarshaler = (*SecretKey)(nil)
)

type publicKeyMarshal struct {
	N *big.Int `json:"n"`
	G *big.Int `json:"g"`
}

// secretKeyMarshal carries the trapdoor and, when the key knows them, the
// prime factors. A secret key restored without P and Q still decrypts but
// loses RandomFactor.
type secretKeyMarshal struct {
	N      *big.Int `json:"n"`
	G      *big.Int `json:"g"`
	Lambda *big.Int `json:"lambda"`
	Mu     *big.Int `json:"mu"`
	P      []byte   `json:"p,omitempty"`
	Q      []byte   `json:"q,omitempty"`
}

func (pk *PublicKey) marshal() publicKeyMarshal {
	return publicKeyMarshal{N: pk.n, G: pk.g}
}

func (pk *PublicKey) unmarshal(x publicKeyMarshal) {
	*pk = *NewPublicKey(x.N, x.G)
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.marshal())
}

func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var x publicKeyMarshal
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	pk.unmarshal(x)
	return nil
}

func (pk PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(pk.marshal())
}

func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var x publicKeyMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	pk.unmarshal(x)
	return nil
}

func (sk *SecretKey) marshal() secretKeyMarshal {
	x := secretKeyMarshal{
		N:      sk.n,
		G:      sk.g,
		Lambda: sk.lambda,
		Mu:     sk.mu,
	}
	if sk.p != nil && sk.q != nil {
		x.P = sk.p.Bytes()
		x.Q = sk.q.Bytes()
	}
	return x
}

func (sk *SecretKey) unmarshal(x secretKeyMarshal) {
	pk := NewPublicKey(x.N, x.G)
	restored := NewSecretKey(x.Lambda, x.Mu, pk)
	if len(x.P) > 0 && len(x.Q) > 0 {
		restored.p = new(big.Int).SetBytes(x.P)
		restored.q = new(big.Int).SetBytes(x.Q)
	}
	*sk = *restored
}

func (sk SecretKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(sk.marshal())
}

func (sk *SecretKey) UnmarshalJSON(data []byte) error {
	var x secretKeyMarshal
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	sk.unmarshal(x)
	return nil
}

func (sk SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(sk.marshal())
}

func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var x secretKeyMarshal
	if err := cbor.Unmarshal(data, &x); err != nil {
		return err
	}
	sk.unmarshal(x)
	return nil
}
