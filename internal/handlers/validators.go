package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

// registerCustomValidators installs request-binding rules that the stock tag
// set cannot express.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// dockind restricts a field to the closed DocumentKind set.
	_ = v.RegisterValidation("dockind", func(fl validator.FieldLevel) bool {
		return domain.DocumentKind(fl.Field().String()).IsValid()
	})
}
