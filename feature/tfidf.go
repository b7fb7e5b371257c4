package feature

import (
	"math"
	"sort"
)

// TfidfVectorizer 把文本编码为 TF-IDF 稀疏向量。
//
// 词表规则：
//   - 按全语料词频保留前 MaxFeatures 个词（同频按字典序），MaxFeatures <= 0 不限制
//   - 词表下标按字典序分配
//   - idf = ln((1+n)/(1+df)) + 1，结果做 L2 归一化
//
// Fit 之后只读，可并发调用 Transform。
type TfidfVectorizer struct {
	MaxFeatures int
	StopWords   map[string]struct{}

	vocab map[string]int
	idf   []float64
}

func NewTfidfVectorizer(maxFeatures int, stopWords map[string]struct{}) *TfidfVectorizer {
	return &TfidfVectorizer{MaxFeatures: maxFeatures, StopWords: stopWords}
}

// Fit 在语料上学习词表和 idf。
func (v *TfidfVectorizer) Fit(docs []string) {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc, v.StopWords) {
			termCount[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ci, cj := termCount[terms[i]], termCount[terms[j]]
			if ci != cj {
				return ci > cj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
}

// Dim 返回词表大小。
func (v *TfidfVectorizer) Dim() int { return len(v.idf) }

// Vocabulary 返回按下标排列的词表。
func (v *TfidfVectorizer) Vocabulary() []string {
	out := make([]string, len(v.idf))
	for t, i := range v.vocab {
		out[i] = t
	}
	return out
}

// Transform 编码单个文档，词表外的词被忽略；没有命中任何词时返回空向量。
func (v *TfidfVectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, tok := range Tokenize(doc, v.StopWords) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	out := Vector{Indices: make([]int, 0, len(counts)), Values: make([]float64, 0, len(counts))}
	for idx := range counts {
		out.Indices = append(out.Indices, idx)
	}
	sort.Ints(out.Indices)
	for _, idx := range out.Indices {
		out.Values = append(out.Values, counts[idx]*v.idf[idx])
	}
	if norm := out.Norm(); norm > 0 {
		for i := range out.Values {
			out.Values[i] /= norm
		}
	}
	return out
}
