package sqlite

import (
	"strings"

	"adboard/internal/domain"
)

// predicate is one boolean SQL condition over the aliased ads row `a`
// together with its positional arguments.
type predicate struct {
	clause string
	args   []any
}

func cond(clause string, args ...any) predicate {
	return predicate{clause: clause, args: args}
}

// anyOf joins predicates with OR. An empty set yields the zero predicate.
func anyOf(preds ...predicate) predicate {
	return join(" OR ", preds)
}

// allOf joins predicates with AND. An empty set yields the zero predicate.
func allOf(preds ...predicate) predicate {
	return join(" AND ", preds)
}

func join(op string, preds []predicate) predicate {
	var kept []predicate
	for _, p := range preds {
		if p.clause != "" {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return predicate{}
	case 1:
		return kept[0]
	}

	clauses := make([]string, len(kept))
	var args []any
	for i, p := range kept {
		clauses[i] = "(" + p.clause + ")"
		args = append(args, p.args...)
	}
	return predicate{clause: strings.Join(clauses, op), args: args}
}

// adPredicate builds the listing condition. Repeated categories are ORed;
// every criterion that is set must hold (AND). Text and location match as
// given, whitespace included.
func adPredicate(f domain.AdFilter) predicate {
	var preds []predicate

	if len(f.CategoryIDs) > 0 {
		cats := make([]predicate, 0, len(f.CategoryIDs))
		for _, id := range f.CategoryIDs {
			cats = append(cats, cond("a.category_id = ?", id))
		}
		preds = append(preds, anyOf(cats...))
	}

	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		preds = append(preds, anyOf(
			cond("instr(casefold(a.name), ?) > 0", needle),
			cond("instr(casefold(a.description), ?) > 0", needle),
		))
	}

	if f.Location != "" {
		preds = append(preds, cond(`EXISTS (
	SELECT 1 FROM locations l
	WHERE l.user_id = a.author_id AND instr(casefold(l.name), ?) > 0
)`, strings.ToLower(f.Location)))
	}

	if f.PriceFrom != nil {
		preds = append(preds, cond("a.price >= ?", *f.PriceFrom))
	}
	if f.PriceTo != nil {
		preds = append(preds, cond("a.price <= ?", *f.PriceTo))
	}

	return allOf(preds...)
}

func whereClause(p predicate) (string, []any) {
	if p.clause == "" {
		return "", nil
	}
	return "\nWHERE " + p.clause, p.args
}
