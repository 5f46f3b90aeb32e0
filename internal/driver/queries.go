package driver

// IndexQueries create the label property indices agent lookups rely on.
var IndexQueries = []string{
	"CREATE INDEX ON :Agent(index);",
	"CREATE INDEX ON :Agent(cui);",
}

const (
	CountAgentsQuery = `
		MATCH (a:Agent {index: $index})
		RETURN count(a) AS total
	`

	SaveAgentsQuery = `
		UNWIND $agents AS agent
		MERGE (a:Agent {index: $index, cui: agent.cui})
		SET a.preferred_name = agent.preferred_name,
			a.synonyms = agent.synonyms,
			a.tradenames = agent.tradenames,
			a.definition = agent.definition,
			a.ent_type = agent.ent_type,
			a.slug = agent.slug,
			a.interacts_with_count = agent.interacts_with_count
	`

	// SearchAgentsQuery and CountMatchingAgentsQuery are completed with a
	// WHERE clause built from the searched fields.
	SearchAgentsQuery = `
		MATCH (a:Agent {index: $index})
		WHERE %s
		RETURN a.cui AS cui,
			a.preferred_name AS preferred_name,
			a.synonyms AS synonyms,
			a.tradenames AS tradenames,
			a.interacts_with_count AS interacts_with_count
		ORDER BY a.interacts_with_count DESC, a.preferred_name ASC
		SKIP $skip
		LIMIT $limit
	`

	CountMatchingAgentsQuery = `
		MATCH (a:Agent {index: $index})
		WHERE %s
		RETURN count(a) AS total
	`
)

// FieldConditions match a lower-cased $query against each searchable field.
var FieldConditions = map[string]string{
	"preferred_name": "toLower(a.preferred_name) CONTAINS $query",
	"definition":     "toLower(a.definition) CONTAINS $query",
	"synonyms":       "any(s IN a.synonyms WHERE toLower(s) CONTAINS $query)",
	"tradenames":     "any(s IN a.tradenames WHERE toLower(s) CONTAINS $query)",
}
