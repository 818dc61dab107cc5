// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arena

import "testing"

func TestSizeClassRounding(t *testing.T) {
	cases := []struct {
		n        int
		capacity int
	}{
		{1, minClass},
		{minClass, minClass},
		{minClass + 1, minClass * 2},
		{maxClass, maxClass},
	}
	for _, c := range cases {
		_, capacity, ok := sizeClass(c.n)
		if !ok {
			t.Fatalf("sizeClass(%d): expected ok", c.n)
		}
		if capacity != c.capacity {
			t.Fatalf("sizeClass(%d) = %d, want %d", c.n, capacity, c.capacity)
		}
	}
}

func TestSizeClassOverflow(t *testing.T) {
	_, _, ok := sizeClass(maxClass + 1)
	if ok {
		t.Fatal("expected overflow of max class to report not ok")
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	a := newPooled()
	b := a.Get(100)
	if len(b) != 100 {
		t.Fatalf("len = %d, want 100", len(b))
	}
	a.Put(b)
	b2 := a.Get(100)
	if len(b2) != 100 {
		t.Fatalf("len = %d, want 100", len(b2))
	}
}

func TestGetOversized(t *testing.T) {
	a := newPooled()
	b := a.Get(maxClass + 100)
	if len(b) != maxClass+100 {
		t.Fatalf("len = %d, want %d", len(b), maxClass+100)
	}
}
