package service

import (
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCredentialService_HashAndVerify(t *testing.T) {
	svc := NewBcryptCredentialService(bcrypt.MinCost, 2)

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash equals plaintext")
	}
	if !svc.Verify("secret1", hash) {
		t.Fatalf("expected verification to succeed")
	}
	if svc.Verify("wrong", hash) {
		t.Fatalf("expected verification to fail for wrong password")
	}
}

func TestCredentialService_HashesAreSalted(t *testing.T) {
	svc := NewBcryptCredentialService(bcrypt.MinCost, 2)

	a, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestCredentialService_InvalidCostFallsBack(t *testing.T) {
	svc := NewBcryptCredentialService(99, 0)

	hash, err := svc.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !svc.Verify("secret1", hash) {
		t.Fatalf("expected verification to succeed")
	}
}

func TestCredentialService_ConcurrentHashing(t *testing.T) {
	svc := NewBcryptCredentialService(bcrypt.MinCost, 2)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := svc.Hash("secret1")
			if err != nil {
				t.Errorf("Hash returned error: %v", err)
				return
			}
			if !svc.Verify("secret1", hash) {
				t.Errorf("verification failed")
			}
		}()
	}
	wg.Wait()
}
