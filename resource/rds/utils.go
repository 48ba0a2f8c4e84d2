package rds

import (
	"fmt"
	"strings"
)

// 名前付きプレースホルダによる条件節の組み立て。条件は全てANDで結合する。
type querying struct {
	clauses []string
	params  map[string]interface{}
}

func andQuery() *querying {
	return &querying{[]string{}, map[string]interface{}{}}
}

// clauseは`:name`形式のプレースホルダを含む。
func (q *querying) add(clause string, name string, value interface{}) *querying {
	q.clauses = append(q.clauses, clause)
	q.params[name] = value
	return q
}

func (q querying) Clause() string {
	if len(q.clauses) == 1 {
		return q.clauses[0]
	}

	wrapped := []string{}
	for _, c := range q.clauses {
		wrapped = append(wrapped, fmt.Sprintf("(%s)", c))
	}

	return strings.Join(wrapped, " AND ")
}

func (q querying) where() (string, map[string]interface{}) {
	params := map[string]interface{}{}
	for k, v := range q.params {
		params[k] = v
	}

	if clause := q.Clause(); len(clause) > 0 {
		return fmt.Sprintf("WHERE %s", clause), params
	} else {
		return "", params
	}
}
