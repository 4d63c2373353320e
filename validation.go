package xlog

import (
	"sync"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/types"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate
var once sync.Once

func validatorInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func validateConfig(cfg *types.LoggingConfig) error {
	const op errors.Op = "xlog.validateConfig"
	if cfg == nil {
		return errors.New(op).Err(ErrValidation).Msg(errMsgNilConfig)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return errors.New(op).Err(&kindError{kind: ErrValidation, err: err}).Msg(errMsgConfigInvalid)
	}

	return nil
}

func validateDefaults(d *Defaults) error {
	const op errors.Op = "xlog.validateDefaults"
	if d == nil {
		return errors.New(op).Err(ErrValidation).Msg(errMsgNilDefaults)
	}

	if err := validatorInstance().Struct(d); err != nil {
		return errors.New(op).Err(&kindError{kind: ErrValidation, err: err}).Msg(errMsgDefaultsInvalid)
	}

	return nil
}

// validateStruct checks archival parameters after they have been parsed.
func validateStruct(op errors.Op, v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return errors.New(op).Err(&kindError{kind: ErrValidation, err: err}).Msg(err.Error())
	}
	return nil
}
