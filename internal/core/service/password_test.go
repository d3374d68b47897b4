package service

import "testing"

func TestHashPassword_FreshSaltEachCall(t *testing.T) {
	h1, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same input must differ")
	}
	if !VerifyPassword("Passw0rd!", h1) || !VerifyPassword("Passw0rd!", h2) {
		t.Fatalf("both hashes must verify against the original password")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	h, err := HashPassword("correct")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if VerifyPassword("wrong", h) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	for _, malformed := range []string{"", "plaintext", "$2a$garbage"} {
		if VerifyPassword("anything", malformed) {
			t.Fatalf("malformed hash %q must not verify", malformed)
		}
	}
}
