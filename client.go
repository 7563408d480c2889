package exchangeflex

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	soapEnvelopeNS   = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNS            = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNS            = "http://www.w3.org/2001/XMLSchema"
	defaultNamespace = "http://tempuri.org/"
	contentType      = "text/xml; charset=utf-8"
)

type Client struct {
	url        string
	opts       ClientOpts
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOpts defines the possible options to pass to a client
type ClientOpts struct {
	// HTTPClient is used for every call when set. Otherwise a client with Timeout is created
	HTTPClient *http.Client

	// Timeout is the overall timeout of a single call. Zero means no timeout
	Timeout time.Duration

	// Logger receives errors and, with Debug, the request and response bodies. Defaults to a no-op logger
	Logger *zap.Logger

	// Debug enables the verbose mode which logs request and response bodies. Use it only for development
	Debug bool

	// Namespace is the namespace of the operation elements. Defaults to http://tempuri.org/
	Namespace string
}

func (opts ClientOpts) getHTTPClient() *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}

	return &http.Client{Timeout: opts.Timeout}
}

func (opts ClientOpts) getLogger() *zap.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}

	return zap.NewNop()
}

// New creates a new Client for the service at url. The client holds no per-call state and is safe for concurrent use
func New(url string, opts ClientOpts) *Client {
	if url == "" {
		panic("service url is required")
	}

	if len(opts.Namespace) == 0 {
		opts.Namespace = defaultNamespace
	}

	return &Client{
		url:        url,
		opts:       opts,
		httpClient: opts.getHTTPClient(),
		logger:     opts.getLogger(),
	}
}

// buildEnvelope builds the envelope for the request
func (c *Client) buildEnvelope(op Operation) *envelope {
	return &envelope{
		Xsi:  xsiNS,
		Xsd:  xsdNS,
		Soap: soapEnvelopeNS,
		Body: requestBody{Operation: op},
	}
}

// GetAccountStatus fetches the status of the account identified by ibanAccount
func (c *Client) GetAccountStatus(ctx context.Context, ibanAccount string) (*AccountStatus, error) {
	data, err := c.query(ctx, Operation{Name: "GetAccountStatus", Param: "ibanAccount", Value: ibanAccount}, msgAccountStatus)
	if err != nil {
		return nil, err
	}

	status, err := parseAccountStatus(data)
	if err != nil {
		c.logger.Error(msgAccountStatus, zap.Error(err))
		return nil, err
	}

	return status, nil
}

// SetPayment submits a payment document and returns the status reported by the service.
// xmlBody is sent as the text of the xmlBody parameter, escaped.
func (c *Client) SetPayment(ctx context.Context, xmlBody string) (string, error) {
	data, err := c.query(ctx, Operation{Name: "SetPayment", Param: "xmlBody", Value: xmlBody}, msgPayment)
	if err != nil {
		return "", err
	}

	status, err := parsePaymentStatus(data)
	if err != nil {
		c.logger.Error(msgPayment, zap.Error(err))
		return "", err
	}

	return status, nil
}

// ListOperations lists all supported operations by the service
func (c *Client) ListOperations(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?wsdl", nil)
	if err != nil {
		return nil, err
	}

	data, err := c.do(req, msgListOps, c.logger.With(zap.String("request_id", uuid.NewString())))
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0)
	ops := doc.FindElements("//wsdl:binding/wsdl:operation")
	for _, op := range ops {
		result = append(result, op.SelectAttrValue("name", ""))
	}

	return result, nil
}

// RawQuery sends op to the service and returns the body of a 2xx response
func (c *Client) RawQuery(ctx context.Context, op Operation) ([]byte, error) {
	return c.query(ctx, op, "error calling "+op.Name)
}

// Query performs the query and returns a *etree.Document
func (c *Client) Query(ctx context.Context, op Operation) (*etree.Document, error) {
	res, err := c.RawQuery(ctx, op)
	if err != nil {
		return nil, err
	}

	return parseDocument(res)
}

func (c *Client) query(ctx context.Context, op Operation, failMsg string) ([]byte, error) {
	if op.Namespace == "" {
		op.Namespace = c.opts.Namespace
	}

	log := c.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("operation", op.Name),
	)

	xmlBytes, err := xml.Marshal(c.buildEnvelope(op))
	if err != nil {
		log.Error(failMsg, zap.Error(err))
		return nil, err
	}

	if c.opts.Debug {
		log.Debug("soap request", zap.String("url", c.url), zap.ByteString("body", xmlBytes))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(xmlBytes))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("SOAPAction", `"`+op.Namespace+op.Name+`"`)

	return c.do(req, failMsg, log)
}

// do sends req and reads the whole body. The body is closed on every path.
func (c *Client) do(req *http.Request, failMsg string, log *zap.Logger) ([]byte, error) {
	response, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(failMsg, zap.Error(err))
		return nil, &TransportError{Message: failMsg, Err: err}
	}

	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		log.Error(failMsg, zap.Int("status", response.StatusCode))
		return nil, &TransportError{Message: failMsg, StatusCode: response.StatusCode}
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		log.Error(failMsg, zap.Error(err))
		return nil, &TransportError{Message: failMsg, StatusCode: response.StatusCode, Err: err}
	}

	if c.opts.Debug {
		log.Debug("soap response", zap.Int("status", response.StatusCode), zap.ByteString("body", data))
	}

	return data, nil
}

var _ ClientIface = &Client{}
