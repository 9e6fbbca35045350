package cql

import (
	"strings"
)

// Keywords after which a table name appears.
const (
	KeywordFrom   = "from"
	KeywordInto   = "into"
	KeywordUpdate = "update"
)

// ExtractTableName pulls the table name following a keyword out of raw query
// text. Pure text analysis, no grammar: the token after the keyword is taken
// and stripped of a keyspace prefix, quotes and trailing punctuation. ok is
// false when the keyword is absent or not followed by a usable token.
func ExtractTableName(keyword string, q Query) (Table, bool) {
	token, ok := tokenAfter(keyword, q.CQL)
	if !ok {
		return "", false
	}
	if idx := strings.LastIndex(token, "."); idx >= 0 {
		token = token[idx+1:]
	}
	if token == "" {
		return "", false
	}
	return Table(token), true
}

// ExtractKeyspace pulls the keyspace name out of a USE query. For other
// query kinds it inspects a keyspace-qualified table after FROM.
func ExtractKeyspace(q Query) (Keyspace, bool) {
	if q.Kind == KindUse {
		token, ok := tokenAfter("use", q.CQL)
		if !ok || token == "" {
			return "", false
		}
		return Keyspace(token), true
	}
	token, ok := tokenAfter(KeywordFrom, q.CQL)
	if !ok {
		return "", false
	}
	idx := strings.Index(token, ".")
	if idx <= 0 {
		return "", false
	}
	return Keyspace(token[:idx]), true
}

// tokenAfter finds the first occurrence of keyword as a whole word (case
// insensitive) and returns the cleaned-up token following it.
func tokenAfter(keyword, text string) (string, bool) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	})
	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i+1 < len(fields) {
			return cleanToken(fields[i+1]), true
		}
	}
	return "", false
}

func cleanToken(token string) string {
	token = strings.TrimRight(token, ";,")
	token = strings.Trim(token, "\"'")
	return strings.TrimSpace(token)
}
