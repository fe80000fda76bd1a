package analysis

import "sort"

// SelectItems 按数量降序稳定排序后保留前 cap 个条目，
// 其余条目按原始相对顺序回显为 SkippedItem。
// cap<=0 时不截断。
func SelectItems(items []DetectedItem, max int) ([]DetectedItem, []SkippedItem) {
	if len(items) == 0 {
		return nil, nil
	}
	ordered := make([]DetectedItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Quantity > ordered[j].Quantity
	})
	if max <= 0 || len(ordered) <= max {
		return ordered, nil
	}
	selected := ordered[:max]

	// skipped 保留检测时的原始相对顺序，而非排序后的顺序
	picked := make(map[int]bool, len(selected))
	for _, sel := range selected {
		for idx, it := range items {
			if picked[idx] {
				continue
			}
			if it == sel {
				picked[idx] = true
				break
			}
		}
	}
	var skipped []SkippedItem
	for idx, it := range items {
		if picked[idx] {
			continue
		}
		skipped = append(skipped, SkippedItem{Name: it.Name, Quantity: it.Quantity})
	}
	return selected, skipped
}
