package textMatch

import (
	"strings"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
)

// LongestPhrasePortion 返回 phrase 中在 search 里连续出现的最长词序列，
// 长度相同时取 search 中最先出现的
func LongestPhrasePortion(phrase, search string) (string, error) {
	phraseWords := strings.Fields(phrase)
	searchWords := strings.Fields(search)

	// prev[j] / cur[j]: 以 search[i] 和 phrase[j] 结尾的公共长度
	prev := make([]int, len(phraseWords)+1)
	cur := make([]int, len(phraseWords)+1)
	bestLen, bestEnd := 0, -1
	for i, sw := range searchWords {
		for j, pw := range phraseWords {
			if sw == pw {
				cur[j+1] = prev[j] + 1
				if cur[j+1] > bestLen {
					bestLen, bestEnd = cur[j+1], i
				}
			} else {
				cur[j+1] = 0
			}
		}
		prev, cur = cur, prev
	}

	if bestLen == 0 {
		return "", errorx.New(errCode.EMPTY_VALUE, "no phrase word found in search string")
	}
	return strings.Join(searchWords[bestEnd-bestLen+1:bestEnd+1], " "), nil
}
