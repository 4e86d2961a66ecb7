package account

import (
	"github.com/nondefyde/coderealm-api/internal/validation"
)

// Declarative rule sets for each credential endpoint. Handlers run these
// against the raw request payload before the service sees it.
var (
	registerRules = validation.Rules{
		"email":               "required,email",
		"password":            "required,min=6",
		"verify_redirect_url": "required",
	}

	loginRules = validation.Rules{
		"email":    "required",
		"password": "required,min=6",
	}

	authenticateRules = validation.Rules{
		"email": "required",
	}

	socialRules = validation.Rules{
		"email":        "omitempty,email",
		"social_id":    "required",
		"access_token": "required",
	}

	verifyLinkRules = validation.Rules{
		"email": "required,email",
		"hash":  "required",
	}

	verifyCodeRules = validation.Rules{
		"verification_code": "required",
	}

	resendVerificationRules = validation.Rules{
		"verify_redirect_url": "required",
	}

	resetPasswordRules = validation.Rules{
		"email":        "required",
		"redirect_url": "required",
	}

	updatePasswordRules = validation.Rules{
		"email":    "required,email",
		"password": "required,min=6",
	}

	changePasswordRules = validation.Rules{
		"current_password": "required,min=6",
		"password":         "required,min=6",
	}
)
