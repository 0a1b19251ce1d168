package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PublicHTTPErrorType Type of error returned, should be used for client-side error handling.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric                PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeNOACTIVESESSION        PublicHTTPErrorType = "NO_ACTIVE_SESSION"
	PublicHTTPErrorTypeSIGNERBUSY             PublicHTTPErrorType = "SIGNER_BUSY"
	PublicHTTPErrorTypeSIGNERUNAVAILABLE      PublicHTTPErrorType = "SIGNER_UNAVAILABLE"
	PublicHTTPErrorTypeAUTHORIZATIONFAILED    PublicHTTPErrorType = "AUTHORIZATION_FAILED"
	PublicHTTPErrorTypeREAUTHORIZATIONFAILED  PublicHTTPErrorType = "REAUTHORIZATION_FAILED"
	PublicHTTPErrorTypeINVALIDADDRESSENCODING PublicHTTPErrorType = "INVALID_ADDRESS_ENCODING"
	PublicHTTPErrorTypeSIGNEDPAYLOADMISMATCH  PublicHTTPErrorType = "SIGNED_PAYLOAD_MISMATCH"
	PublicHTTPErrorTypeSIGNINGDECLINED        PublicHTTPErrorType = "SIGNING_DECLINED"
	PublicHTTPErrorTypeSIGNERPROTOCOLERROR    PublicHTTPErrorType = "SIGNER_PROTOCOL_ERROR"
	PublicHTTPErrorTypeNETWORKERROR           PublicHTTPErrorType = "NETWORK_ERROR"
	PublicHTTPErrorTypeSUBMISSIONREJECTED     PublicHTTPErrorType = "SUBMISSION_REJECTED"
	PublicHTTPErrorTypeCONFIRMATIONTIMEOUT    PublicHTTPErrorType = "CONFIRMATION_TIMEOUT"
	PublicHTTPErrorTypeLEDGERERROR            PublicHTTPErrorType = "LEDGER_ERROR"
	PublicHTTPErrorTypeINVALIDREQUEST         PublicHTTPErrorType = "INVALID_REQUEST"
)

var publicHTTPErrorTypeEnum []interface{}

func init() {
	for _, v := range []PublicHTTPErrorType{
		PublicHTTPErrorTypeGeneric,
		PublicHTTPErrorTypeNOACTIVESESSION,
		PublicHTTPErrorTypeSIGNERBUSY,
		PublicHTTPErrorTypeSIGNERUNAVAILABLE,
		PublicHTTPErrorTypeAUTHORIZATIONFAILED,
		PublicHTTPErrorTypeREAUTHORIZATIONFAILED,
		PublicHTTPErrorTypeINVALIDADDRESSENCODING,
		PublicHTTPErrorTypeSIGNEDPAYLOADMISMATCH,
		PublicHTTPErrorTypeSIGNINGDECLINED,
		PublicHTTPErrorTypeSIGNERPROTOCOLERROR,
		PublicHTTPErrorTypeNETWORKERROR,
		PublicHTTPErrorTypeSUBMISSIONREJECTED,
		PublicHTTPErrorTypeCONFIRMATIONTIMEOUT,
		PublicHTTPErrorTypeLEDGERERROR,
		PublicHTTPErrorTypeINVALIDREQUEST,
	} {
		publicHTTPErrorTypeEnum = append(publicHTTPErrorTypeEnum, v)
	}
}

// NewPublicHTTPErrorType returns a pointer to v.
func NewPublicHTTPErrorType(value PublicHTTPErrorType) *PublicHTTPErrorType {
	return &value
}

// Pointer returns a pointer to a freshly-allocated PublicHTTPErrorType.
func (m PublicHTTPErrorType) Pointer() *PublicHTTPErrorType {
	return &m
}

func (m PublicHTTPErrorType) validateEnum(path, location string, value PublicHTTPErrorType) error {
	if err := validate.EnumCase(path, location, value, publicHTTPErrorTypeEnum, true); err != nil {
		return err
	}
	return nil
}

// Validate validates this public Http error type
func (m PublicHTTPErrorType) Validate(_ strfmt.Registry) error {
	return m.validateEnum("", "body", m)
}
