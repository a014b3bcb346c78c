package setsim

import "testing"

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    []int64
		b    []int64
		want float64
	}{
		{
			name: "both empty",
			a:    nil,
			b:    nil,
			want: 0,
		},
		{
			name: "one empty",
			a:    []int64{1, 2, 3},
			b:    nil,
			want: 0,
		},
		{
			name: "identical",
			a:    []int64{1, 2, 3},
			b:    []int64{1, 2, 3},
			want: 1,
		},
		{
			name: "disjoint",
			a:    []int64{1, 2},
			b:    []int64{3, 4},
			want: 0,
		},
		{
			name: "half overlap", // {1,2,3} vs {2,3,4}: 交集 2, 并集 4
			a:    []int64{1, 2, 3},
			b:    []int64{2, 3, 4},
			want: 0.5,
		},
		{
			name: "duplicates collapse",
			a:    []int64{1, 1, 2},
			b:    []int64{2, 2, 3},
			want: 1.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setA := FromSlice(tt.a)
			setB := FromSlice(tt.b)

			got := Jaccard(setA, setB)
			if got != tt.want {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}

			// 对称性
			if rev := Jaccard(setB, setA); rev != got {
				t.Errorf("Jaccard not symmetric: %v vs %v", got, rev)
			}

			// 值域
			if got < 0 || got > 1 {
				t.Errorf("Jaccard() = %v, out of [0,1]", got)
			}
		})
	}
}

func TestJaccard_StringSets(t *testing.T) {
	a := FromSlice([]string{"alice", "bob"})
	b := FromSlice([]string{"bob", "carol"})

	if got := Jaccard(a, b); got != 1.0/3.0 {
		t.Errorf("Jaccard() = %v, want %v", got, 1.0/3.0)
	}
}
