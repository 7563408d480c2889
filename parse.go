package exchangeflex

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

func parseDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedResponse)
	}

	return doc, nil
}

// findDescendant returns the first element below root, in document order,
// with the given local name in the root's namespace.
func findDescendant(root *etree.Element, local string) *etree.Element {
	return findIn(root, local, root.NamespaceURI())
}

func findIn(parent *etree.Element, local, space string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == local && child.NamespaceURI() == space {
			return child
		}

		if found := findIn(child, local, space); found != nil {
			return found
		}
	}

	return nil
}

// elementValue concatenates all text nodes below e
func elementValue(e *etree.Element) string {
	var sb strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(elementValue(t))
		}
	}

	return sb.String()
}

func requiredValue(root *etree.Element, local string) (string, error) {
	el := findDescendant(root, local)
	if el == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, local)
	}

	return elementValue(el), nil
}

func optionalValue(root *etree.Element, local string) string {
	el := findDescendant(root, local)
	if el == nil {
		return ""
	}

	return elementValue(el)
}

func parseBool(name, text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, fmt.Errorf("%w: %s: %q is not a boolean", ErrValueFormat, name, text)
}

func parseDecimal(name, text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %q is not a decimal", ErrValueFormat, name, text)
	}

	return d, nil
}

func parseAccountStatus(data []byte) (*AccountStatus, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()

	balance, err := parseDecimal("AvailableBalance", optionalValue(root, "AvailableBalance"))
	if err != nil {
		return nil, err
	}

	activity := optionalValue(root, "AccountActivity")

	iinText, err := requiredValue(root, "IsIinValid")
	if err != nil {
		return nil, err
	}
	isIinValid, err := parseBool("IsIinValid", iinText)
	if err != nil {
		return nil, err
	}

	ibanText, err := requiredValue(root, "IsIbanValid")
	if err != nil {
		return nil, err
	}
	isIbanValid, err := parseBool("IsIbanValid", ibanText)
	if err != nil {
		return nil, err
	}

	return &AccountStatus{
		AvailableBalance: balance,
		AccountActivity:  activity,
		IsIinValid:       isIinValid,
		IsIbanValid:      isIbanValid,
	}, nil
}

func parsePaymentStatus(data []byte) (string, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return "", err
	}

	return requiredValue(doc.Root(), "Status")
}
