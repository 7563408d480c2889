package exchangeflex

import (
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type envelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	Xsi     string      `xml:"xmlns:xsi,attr"`
	Xsd     string      `xml:"xmlns:xsd,attr"`
	Soap    string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	XMLName   xml.Name `xml:"soap:Body"`
	Operation Operation
}

// Operation defines a single-parameter operation of the exchange service
type Operation struct {
	// Name is the name of the operation, e.g. GetAccountStatus. It is mandatory.
	Name string
	// Param is the name of the only parameter element. It is mandatory.
	Param string
	// Value is the text of the parameter element. It is escaped when marshalled.
	Value string
	// Namespace of the operation element. Defaults to the client's namespace.
	Namespace string
}

// MarshalXML marshals the Operation as <Name xmlns="Namespace"><Param>Value</Param></Name>.
// Value must be valid UTF-8 made of XML 1.0 characters, otherwise ErrInvalidInput is returned.
func (op Operation) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := validateText(op.Value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidInput, op.Param, err)
	}

	start.Name = xml.Name{Local: op.Name}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: op.Namespace}}

	if err := e.EncodeToken(start); err != nil {
		return err
	}

	param := xml.StartElement{Name: xml.Name{Local: op.Param}}
	if err := e.EncodeElement(op.Value, param); err != nil {
		return err
	}

	if err := e.EncodeToken(start.End()); err != nil {
		return err
	}

	return e.Flush()
}

func validateText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return fmt.Errorf("invalid UTF-8 at byte %d", i)
			}
		}

		if !isXMLChar(r) {
			return fmt.Errorf("character %U at byte %d is not allowed in XML", r, i)
		}
	}

	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// AccountStatus is the state of an account as reported by GetAccountStatus
type AccountStatus struct {
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	AccountActivity  string          `json:"accountActivity"`
	IsIinValid       bool            `json:"isIinValid"`
	IsIbanValid      bool            `json:"isIbanValid"`
}
