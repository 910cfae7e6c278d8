package cache

import (
	"testing"
	"time"
)

func TestDiskCacheGetSetInvalidate(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	key := KeyForInfo([]string{"glibc"})
	if err := d.Set(key, `{"Name":"glibc"}`, time.Minute); err != nil {
		t.Fatal(err)
	}
	v, ok := d.Get(key)
	if !ok || v != `{"Name":"glibc"}` {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	if err := d.Invalidate(key); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(key); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestDiskCacheExpiredEntryMisses(t *testing.T) {
	dir := t.TempDir()
	d, _ := NewDiskCache(dir)
	key := KeyForSearch("firefox")
	_ = d.Set(key, "stale", -time.Second)
	if _, ok := d.Get(key); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCacheClearRemovesAllOperations(t *testing.T) {
	dir := t.TempDir()
	d, _ := NewDiskCache(dir)
	_ = d.Set(KeyForSearch("a"), "1", time.Minute)
	_ = d.Set(KeyForPkgbuild("b"), "2", time.Minute)

	if err := d.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(KeyForSearch("a")); ok {
		t.Error("expected search entry cleared")
	}
	if _, ok := d.Get(KeyForPkgbuild("b")); ok {
		t.Error("expected pkgbuild entry cleared")
	}
}
