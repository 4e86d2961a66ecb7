package resource

import "github.com/nondefyde/coderealm-api/internal/validation"

// DefaultRegistry declares every entity kind served through the generic CRUD
// path. Account state transitions never go through here: the users kind is
// read-only for everything credential-related.
func DefaultRegistry() *Registry {
	named := func(name, table string) *Kind {
		return &Kind{
			Name:        name,
			Table:       table,
			Fields:      []string{"name", "active"},
			Uniques:     []string{"name"},
			OnDuplicate: ReturnExisting,
			Rules: validation.RuleSets{
				validation.OpCreate: {"name": "required"},
				validation.OpUpdate: {},
			},
		}
	}

	users := &Kind{
		Name:  "users",
		Table: "users",
		Fields: []string{
			"email", "username", "password", "first_name", "last_name",
			"mobile", "gender", "dob", "account_verified", "active",
			"verification_code", "verify_code_expiration",
			"password_reset_code", "reset_code_expiration",
			"change_password", "social_auth", "social_auth_type", "social_id",
		},
		Hidden: []string{
			"password", "verification_code", "verify_code_expiration",
			"password_reset_code", "reset_code_expiration",
		},
		Uniques:     []string{"email", "username"},
		OnDuplicate: RejectDuplicate,
		// Credential state is owned by the account module; the generic path
		// only reads and lists users.
		ReadOnly: true,
	}

	media := &Kind{
		Name:   "media",
		Table:  "media",
		Fields: []string{"user_id", "file_url", "file_key", "mime_type"},
		Rules: validation.RuleSets{
			validation.OpCreate: {
				"user_id":  "required",
				"file_url": "required,url",
				"file_key": "required",
			},
			validation.OpUpdate: {},
		},
		Relations: map[string]Relation{
			"user_id": {Kind: "users"},
		},
	}

	return NewRegistry(
		named("categories", "categories"),
		named("sexes", "sexes"),
		named("age-groups", "age_groups"),
		named("reward-types", "reward_types"),
		media,
		users,
	)
}
