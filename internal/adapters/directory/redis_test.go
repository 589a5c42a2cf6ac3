package directory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SriBalajiKalepu/SpeedShare/internal/domain"
)

// Redis-backed tests require Redis on localhost:6379 and skip otherwise.
const testRedisAddr = "localhost:6379"

func setupTestDirectory(t *testing.T) *Redis {
	t.Helper()
	ctx := context.Background()
	dir, err := New(ctx, testRedisAddr, 0, time.Hour, 10)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	t.Cleanup(func() { dir.Close() })
	return dir
}

func TestNewCodeGen(t *testing.T) {
	gen, err := newCodeGen()
	if err != nil {
		t.Fatalf("newCodeGen: %v", err)
	}
	for i := 0; i < 100; i++ {
		code := gen()
		if len(code) != domain.CodeLen {
			t.Fatalf("code %q has length %d, want %d", code, len(code), domain.CodeLen)
		}
		for _, r := range code {
			if !strings.ContainsRune(domain.CodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestCreateExistsDelete(t *testing.T) {
	dir := setupTestDirectory(t)
	ctx := context.Background()

	code, err := dir.CreateUniqueCode(ctx)
	if err != nil {
		t.Fatalf("CreateUniqueCode: %v", err)
	}
	if !code.Valid() {
		t.Fatalf("created code %q is not valid", code)
	}
	t.Cleanup(func() { dir.Delete(ctx, code) })

	exists, err := dir.Exists(ctx, code)
	if err != nil || !exists {
		t.Fatalf("Exists(%q) = %v, %v; want true", code, exists, err)
	}

	// lookup is case-insensitive through normalization
	lower := domain.NormalizeCode(strings.ToLower(string(code)))
	exists, err = dir.Exists(ctx, lower)
	if err != nil || !exists {
		t.Fatalf("Exists(normalized %q) = %v, %v; want true", lower, exists, err)
	}

	deleted, err := dir.Delete(ctx, code)
	if err != nil || !deleted {
		t.Fatalf("Delete(%q) = %v, %v; want true", code, deleted, err)
	}

	exists, err = dir.Exists(ctx, code)
	if err != nil || exists {
		t.Fatalf("Exists after delete = %v, %v; want false", exists, err)
	}

	deleted, err = dir.Delete(ctx, code)
	if err != nil {
		t.Fatalf("second Delete errored: %v", err)
	}
	if deleted {
		t.Error("second Delete reported an entry, want false")
	}
}

func TestCreateSetsTTL(t *testing.T) {
	dir := setupTestDirectory(t)
	ctx := context.Background()

	code, err := dir.CreateUniqueCode(ctx)
	if err != nil {
		t.Fatalf("CreateUniqueCode: %v", err)
	}
	t.Cleanup(func() { dir.Delete(ctx, code) })

	ttl, err := dir.rdb.TTL(ctx, key(code)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL = %v, want within (0, 1h]", ttl)
	}
}

func TestConcurrentCreatesAreUnique(t *testing.T) {
	dir := setupTestDirectory(t)
	ctx := context.Background()

	a, err := dir.CreateUniqueCode(ctx)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	t.Cleanup(func() { dir.Delete(ctx, a) })
	b, err := dir.CreateUniqueCode(ctx)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	t.Cleanup(func() { dir.Delete(ctx, b) })

	if a == b {
		t.Errorf("two live creates produced the same code %q", a)
	}
}

func TestCreateExhaustsOnStuckGenerator(t *testing.T) {
	dir := setupTestDirectory(t)
	ctx := context.Background()

	code, err := dir.CreateUniqueCode(ctx)
	if err != nil {
		t.Fatalf("CreateUniqueCode: %v", err)
	}
	t.Cleanup(func() { dir.Delete(ctx, code) })

	// force every candidate to collide with the live entry
	dir.gen = func() string { return string(code) }

	_, err = dir.CreateUniqueCode(ctx)
	if !errors.Is(err, domain.ErrCodeGenerationExhausted) {
		t.Errorf("err = %v, want ErrCodeGenerationExhausted", err)
	}
}

func TestExistsInvalidFormat(t *testing.T) {
	dir := setupTestDirectory(t)
	ctx := context.Background()

	_, err := dir.Exists(ctx, "ABC")
	if !errors.Is(err, domain.ErrInvalidCodeFormat) {
		t.Errorf("Exists err = %v, want ErrInvalidCodeFormat", err)
	}
	_, err = dir.Delete(ctx, "ABCDE")
	if !errors.Is(err, domain.ErrInvalidCodeFormat) {
		t.Errorf("Delete err = %v, want ErrInvalidCodeFormat", err)
	}
}
