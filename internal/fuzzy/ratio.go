package fuzzy

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio 计算两个字符串的相似度（0-100），算法与经典 SequenceMatcher.ratio 一致：
// 2*M/(len(a)+len(b))，M 为递归最长公共块的字符总数。按 Unicode 码点比较，区分大小写。
// 完全相同（包括都为空）返回 100，仅一方为空返回 0。
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := runes(a), runes(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	// 关闭自动垃圾过滤，长字符串中的高频字符也参与匹配
	r := difflib.NewMatcherWithJunk(ra, rb, false, nil).Ratio()
	return int(math.RoundToEven(100 * r))
}

// FoldedRatio 先做大小写折叠再计算 Ratio
func FoldedRatio(a, b string) int {
	return Ratio(fold(a), fold(b))
}

// BestIndex 返回与 query 最相似的候选集下标：每个候选集取其中最大得分，
// 仅当得分严格大于当前最优时才替换（同分保留先出现的）。没有阈值，全部为 0 时返回 0；
// 候选为空时返回 -1。
func BestIndex(query string, candidates [][]string) int {
	if len(candidates) == 0 {
		return -1
	}
	best, bestScore := 0, 0
	for i, strs := range candidates {
		score := 0
		for _, s := range strs {
			if r := FoldedRatio(s, query); r > score {
				score = r
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// fold 近似 casefold：ToLower 后再处理德语 ß
func fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "ß", "ss")
}

// runes 按 Unicode 码点拆分，每个码点作为一个比较元素
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
