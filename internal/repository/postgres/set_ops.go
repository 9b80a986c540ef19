package postgres

import (
	"fmt"
	"slices"
	"strings"

	"match-backend/internal/domain"

	"github.com/lib/pq"
)

// setDelta is the net effect of a sequence of ops on one set: the stored
// members minus Remove, followed by Add.
type setDelta struct {
	remove []string
	add    []string
}

func mergeSetOps(ops []domain.SetOp) (map[domain.RelationSet]*setDelta, []domain.RelationSet, error) {
	deltas := make(map[domain.RelationSet]*setDelta)
	var order []domain.RelationSet

	for _, op := range ops {
		if !op.Set.Valid() {
			return nil, nil, fmt.Errorf("unknown relation set %q", op.Set)
		}
		d, ok := deltas[op.Set]
		if !ok {
			d = &setDelta{remove: []string{}, add: []string{}}
			deltas[op.Set] = d
			order = append(order, op.Set)
		}
		// A later removal cancels an earlier addition of the same member.
		d.add = slices.DeleteFunc(d.add, func(m string) bool { return slices.Contains(op.Remove, m) })
		for _, m := range op.Remove {
			if !slices.Contains(d.remove, m) {
				d.remove = append(d.remove, m)
			}
		}
		for _, m := range op.Add {
			if !slices.Contains(d.add, m) {
				d.add = append(d.add, m)
			}
		}
	}
	return deltas, order, nil
}

// buildSetOpsQuery renders one UPDATE that applies ops to the row with the
// given id. Every expression reads the column of the row being updated, so
// concurrent statements on the same row serialize on the row lock and each
// sees the other's committed members. A non-empty unlessMatched skips the
// row when that id is already in its matched set.
func buildSetOpsQuery(id, unlessMatched string, ops []domain.SetOp) (string, []any, error) {
	deltas, order, err := mergeSetOps(ops)
	if err != nil {
		return "", nil, err
	}
	if len(order) == 0 {
		return "", nil, fmt.Errorf("no set operations")
	}

	args := []any{id}
	assignments := make([]string, 0, len(order)+1)
	for _, set := range order {
		d := deltas[set]
		col := pq.QuoteIdentifier(string(set))
		args = append(args, d.remove, d.add)
		rm := fmt.Sprintf("$%d::text[]", len(args)-1)
		add := fmt.Sprintf("$%d::text[]", len(args))

		assignments = append(assignments, fmt.Sprintf(
			"%[1]s = ARRAY(SELECT m FROM unnest(%[1]s) WITH ORDINALITY AS t(m, i) WHERE m <> ALL(%[2]s) ORDER BY i)"+
				" || ARRAY(SELECT a FROM unnest(%[3]s) WITH ORDINALITY AS u(a, j) WHERE a <> ALL(%[1]s) OR a = ANY(%[2]s) ORDER BY j)",
			col, rm, add,
		))
	}
	assignments = append(assignments, "updated_at = now()")

	where := "id = $1"
	if unlessMatched != "" {
		args = append(args, unlessMatched)
		where += fmt.Sprintf(" AND NOT (matched @> ARRAY[$%d::text])", len(args))
	}

	query := "UPDATE profiles SET " + strings.Join(assignments, ", ") + " WHERE " + where + " RETURNING id"
	return query, args, nil
}
