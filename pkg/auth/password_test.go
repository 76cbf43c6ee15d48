package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	// MinCost keeps the test fast; the work factor does not change the
	// contract.
	hasher := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "pw12345"},
		{name: "long password", password: "correct horse battery staple with extra entropy"},
		{name: "unicode password", password: "contraseña-segura-ñ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == tt.password {
				t.Fatal("hash must not equal the plaintext")
			}
			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() = false for matching password")
			}
			if hasher.Verify(tt.password+"x", hash) {
				t.Error("Verify() = true for non-matching password")
			}
		})
	}
}

func TestHasher_SaltsPerCall(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pw12345")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("pw12345")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ (random salt)")
	}
	if !hasher.Verify("pw12345", first) || !hasher.Verify("pw12345", second) {
		t.Error("Verify() must succeed against every hash it produced")
	}
}

func TestHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name string
		hash string
	}{
		{name: "empty hash", hash: ""},
		{name: "garbage", hash: "not-a-bcrypt-hash"},
		{name: "truncated", hash: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hasher.Verify("pw12345", tt.hash) {
				t.Error("Verify() must return false for malformed hashes")
			}
		})
	}
}

func TestNewHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "zero falls back to default", cost: 0, want: DefaultHashCost},
		{name: "negative falls back to default", cost: -1, want: DefaultHashCost},
		{name: "above max falls back to default", cost: bcrypt.MaxCost + 1, want: DefaultHashCost},
		{name: "valid cost kept", cost: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewHasher(tt.cost).cost; got != tt.want {
				t.Errorf("NewHasher(%d).cost = %d, want %d", tt.cost, got, tt.want)
			}
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	first, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword() error = %v", err)
	}
	second, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword() error = %v", err)
	}
	if first == second {
		t.Error("generated passwords must differ")
	}
	if err := ValidatePassword(first); err != nil {
		t.Errorf("generated password failed validation: %v", err)
	}
}
