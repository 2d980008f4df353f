package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/repo"
)

const defaultNetgsmURL = "https://api.netgsm.com.tr/sms/send/get"

// Netgsm result codes
var netgsmErrors = map[string]string{
	"20": "Mesaj metninde hata var",
	"30": "Geçersiz kullanıcı adı/şifre",
	"40": "Mesaj başlığı sistemde tanımlı değil",
	"50": "Abone hesabında kredisi yok",
	"51": "Abone hesap limitini aştı",
	"70": "Hatalı sorgulama",
	"80": "Gönderim sınırı aşıldı",
	"85": "Mükerrer gönderim",
}

// SMSConfig configures the Netgsm gateway
type SMSConfig struct {
	Username string
	Password string
	Sender   string
	APIURL   string // Override for tests
}

// Enabled reports whether credentials are present
func (c SMSConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

type netgsmRepo struct {
	cfg        SMSConfig
	httpClient *http.Client
}

// NewSMSRepo creates the Netgsm SMS repository, or nil without credentials
func NewSMSRepo(cfg SMSConfig) repo.SMSRepo {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.Sender == "" {
		cfg.Sender = "TEVKIL"
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultNetgsmURL
	}
	return &netgsmRepo{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NetgsmError is a non-success result code
type NetgsmError struct {
	Code    string
	Message string
}

func (e *NetgsmError) Error() string {
	return fmt.Sprintf("netgsm %s: %s", e.Code, e.Message)
}

// SendSMS sends one SMS
func (r *netgsmRepo) SendSMS(ctx context.Context, phone, text string) error {
	gsm := nationalNumber(phone)

	params := url.Values{}
	params.Set("usercode", r.cfg.Username)
	params.Set("password", r.cfg.Password)
	params.Set("gsmno", gsm)
	params.Set("message", text)
	params.Set("msgheader", r.cfg.Sender)
	params.Set("dil", "TR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call netgsm: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("failed to read netgsm response: %w", err)
	}

	if err := parseNetgsmResult(string(body)); err != nil {
		return err
	}
	fmt.Printf("[SMS] Sent to %s\n", maskPhone(gsm))
	return nil
}

// parseNetgsmResult reads the leading result code; "00" is success
func parseNetgsmResult(body string) error {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return &NetgsmError{Code: "", Message: "Boş yanıt"}
	}
	code := fields[0]
	if code == "00" {
		return nil
	}
	msg, ok := netgsmErrors[code]
	if !ok {
		msg = "Bilinmeyen hata: " + code
	}
	return &NetgsmError{Code: code, Message: msg}
}

// nationalNumber converts a phone to the 10-digit national form
func nationalNumber(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "0")
	p = strings.TrimPrefix(p, "+90")
	p = strings.TrimPrefix(p, "90")
	return p
}

func maskPhone(p string) string {
	if len(p) < 5 {
		return p
	}
	return p[:3] + "***" + p[len(p)-2:]
}
