// Package setsim 提供集合相似度计算。
//
// 纯函数、无 I/O、无副作用；对同一对集合的计算结果可复现。
package setsim

// Jaccard 计算两个集合的 Jaccard 相似度：|A ∩ B| / |A ∪ B|。
//
// 性质：
//   - 结果恒在 [0.0, 1.0]
//   - 对称：Jaccard(A,B) == Jaccard(B,A)
//   - 任一集合为空（并集为空）时返回 0.0
func Jaccard[T comparable](a, b map[T]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// 遍历小集合求交集
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// FromSlice 把 slice 转为集合，重复元素只保留一份。
func FromSlice[T comparable](s []T) map[T]struct{} {
	set := make(map[T]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return set
}
