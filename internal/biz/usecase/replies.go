package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muratcankoptayyy/tevkil-platform/internal/biz/domain"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━"

// Replies renders the Turkish chat messages
type Replies struct {
	siteURL      string
	supportEmail string
}

// NewReplies creates the message renderer
func NewReplies(cfg domain.BotConfig) *Replies {
	return &Replies{
		siteURL:      strings.TrimRight(cfg.SiteURL, "/"),
		supportEmail: cfg.SupportEmail,
	}
}

// ListingURL is the public link of a listing
func (r *Replies) ListingURL(id int64) string {
	return fmt.Sprintf("%s/posts/%d", r.siteURL, id)
}

// RegisterURL is the sign-up page
func (r *Replies) RegisterURL() string {
	return r.siteURL + "/register"
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func (r *Replies) NotRegistered(phone string) string {
	return fmt.Sprintf(`👋 Merhaba!

Bu numara (%s) sistemimizde kayıtlı değil.

Ulusal Tevkil Ağı'na katılmak için:
🔗 %s

Kayıt olduktan sonra bu numaradan ilan oluşturabilir, başvuru yapabilirsiniz!

❓ Sorularınız için: %s`, phone, r.RegisterURL(), r.supportEmail)
}

// Preview shows a freshly extracted proposal
func (r *Replies) Preview(p domain.ListingProposal, category string, urgency domain.Urgency) string {
	return fmt.Sprintf(`🤖 *İLAN ÖNİZLEMESİ*

📋 *%s*

🏛️ Mahkeme: %s
📍 Şehir: %s
📂 Kategori: %s
💰 Ücret: *%s TL*
⚡ Aciliyet: %s

_%s_

─────────────────────
✅ *Onaylamak:* "Tamam" / "Evet" / "Paylaş" ya da #ONAYLA
🔧 *Düzeltmek:* "Şehir Ankara olsun"
❌ *İptal:* "Hayır" / "Vazgeç" ya da #IPTAL

💡 Doğal yazın, AI anlıyor.`,
		p.Title, p.Courthouse, p.City, category, formatPrice(p.Price), urgency.Label(), p.Description)
}

// CorrectedPreview shows the proposal after a correction
func (r *Replies) CorrectedPreview(c *domain.Correction, category string, urgency domain.Urgency) string {
	p := c.Proposal
	summary := c.ChangeSummary
	if summary == "" {
		summary = "İlan güncellendi"
	}
	return fmt.Sprintf(`✅ DÜZELTİLDİ: %s

🤖 YENİ ÖNİZLEME

%s
📋 BAŞLIK
%s

🏛️ MAHKEME
%s

📍 ŞEHİR
%s

📂 KATEGORİ
%s

📝 AÇIKLAMA
%s

💰 ÜCRET
%s TL

⚡ ACİLİYET
%s
%s

✅ Şimdi doğru mu?

👍 ONAYLAMAK İÇİN:
"Tamam", "Evet", "Olur", "Paylaş"

❌ İPTAL İÇİN:
"Vazgeç", "İptal", "Hayır"

🔧 BAŞKA DÜZELTME:
"Ücret 4000 TL olmalı" gibi yazın`,
		summary, divider, p.Title, p.Courthouse, p.City, category, p.Description,
		formatPrice(p.Price), urgency.Label(), divider)
}

// Published confirms an approved proposal
func (r *Replies) Published(l *domain.Listing) string {
	return fmt.Sprintf(`✅ İLAN YAYINLANDI!

📋 %s
🏛️ %s
📍 %s
📂 %s
💰 %s TL
⚡ %s
🆔 İlan No: #%d

🔗 %s

✅ İlanınız aktif! Başvurular gelmeye başlayacak.`,
		l.Title, l.Courthouse, l.Location, l.Category, formatPrice(l.PriceMin), l.Urgency.Label(),
		l.ID, r.ListingURL(l.ID))
}

// Created confirms a #ILAN listing
func (r *Replies) Created(l *domain.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ İLAN OLUŞTURULDU!\n\n")
	fmt.Fprintf(&b, "📋 İlan No: #%d\n", l.ID)
	fmt.Fprintf(&b, "📌 Başlık: %s\n", l.Title)
	fmt.Fprintf(&b, "🏛 Kategori: %s\n", l.Category)
	fmt.Fprintf(&b, "📍 Şehir: %s\n", l.Location)
	if l.HasPrice() {
		fmt.Fprintf(&b, "💰 Ücret: %s TL\n", formatPrice(l.PriceMax))
	}
	fmt.Fprintf(&b, "⚡ Aciliyet: %s\n\n", l.Urgency.Label())
	b.WriteString("Başvurular geldiğinde size WhatsApp'tan bildirim göndereceğiz!\n\n")
	fmt.Fprintf(&b, "İlanınızı görmek için:\n🔗 %s", r.ListingURL(l.ID))
	return b.String()
}

// MissingFields names the required #ILAN fields that were not given
func (r *Replies) MissingFields(fields []string) string {
	return fmt.Sprintf(`❌ Eksik bilgi!

Lütfen şu alanları ekleyin:
%s

Doğru format için #YARDIM yazın.`, strings.Join(fields, ", "))
}

func (r *Replies) Cancelled() string {
	return `❌ İlan iptal edildi.

Yeni ilan oluşturmak için mesajınızı gönderin.

Yardım: #YARDIM`
}

func (r *Replies) NothingToApprove() string {
	return `❌ Onay bekleyen ilan yok.

Yeni ilan oluşturmak için mesajınızı gönderin.

Örnek:
"Ankara 4. Asliye Ceza Mahkemesi'nde saat 10:00 duruşma, 2000 TL"

Yardım: #YARDIM`
}

func (r *Replies) NothingToCancel() string {
	return `❌ İptal edilecek ilan yok.

Yardım: #YARDIM`
}

// Unclear is the guidance while a proposal waits for an answer
func (r *Replies) Unclear() string {
	return `❓ Mesajınızı tam anlayamadım.

Lütfen daha açık yazabilir misiniz?

✅ ONAYLAMAK İÇİN:
"Tamam", "Evet", "Olur", "Paylaş" ya da #ONAYLA

🔧 DÜZELTME İÇİN:
"Şehir İstanbul olmalı", "Ücret 4000 TL"

❌ İPTAL İÇİN:
"Vazgeç", "İptal", "Hayır" ya da #IPTAL`
}

func (r *Replies) CorrectionFailed() string {
	return `❓ Düzeltmeyi anlayamadım.

Lütfen daha açık yazın:
"Şehir İstanbul olmalı"
"Ücret 3000 TL"
"Mahkeme adı Ankara 5. Asliye Ceza olacak"

VEYA:
• Onaylamak için: "Tamam", "Evet", "Olur"
• İptal etmek için: "Vazgeç", "İptal", "Hayır"`
}

// ExtractionFailed shows both entry points after a failed AI parse
func (r *Replies) ExtractionFailed() string {
	return `❓ Mesajınızı anlayamadım.

Lütfen daha detaylı yazın:

✅ İyi Örnek:
"Ankara 4. Asliye Ceza Mahkemesi'nde saat 10:00'da duruşmam var, tevkil arıyorum, 2000 TL ücret"

VEYA şablonlu format:
#ILAN
Başlık: Ceza Davası
Kategori: Ceza Hukuku
Şehir: Ankara
Mahkeme: Ankara 4. Asliye Ceza Mahkemesi
Açıklama: Saat 10:00 duruşma
Ücret: 2000

Detay: #YARDIM`
}

// AITimeout is sent when the AI did not answer in time
func (r *Replies) AITimeout() string {
	return `⏳ Yapay zeka şu an yanıt veremedi.

Lütfen birkaç saniye sonra mesajınızı tekrar gönderin.

Beklemek istemezseniz #ILAN ile şablonlu formatı kullanabilirsiniz.`
}

// PersistFailed is sent when an approved proposal could not be saved
func (r *Replies) PersistFailed() string {
	return `❌ İlan şu an oluşturulamadı.

İlanınız onay için bekliyor; birazdan tekrar "Tamam" yazarak deneyebilirsiniz.

Sorun sürerse #ILAN komutu ile manuel oluşturun.`
}

func (r *Replies) CreateFailed() string {
	return `❌ İlan oluşturulurken bir hata oluştu.

Lütfen tekrar deneyin veya #YARDIM yazın.`
}

func (r *Replies) TemporaryFailure() string {
	return `⚠️ Şu an isteğinizi işleyemiyoruz.

Lütfen biraz sonra tekrar deneyin.`
}

// Unknown is the idle-state fallback
func (r *Replies) Unknown() string {
	return `❓ Anlamadım.

💡 İlan oluşturmak için:
• Doğal dil: "Ankara 2. Ağır Ceza'da yarın duruşmam var, tevkil lazım"
• Komut: #ILAN ile şablonlu format

📋 Diğer komutlar:
• #ILANLARIM - İlanlarımı göster
• #BASVURULARIM - Başvurularımı göster
• #DURUM - Hesap durumu
• #YARDIM - Detaylı yardım

Detaylı bilgi için #YARDIM yazın.`
}

func (r *Replies) Help(aiEnabled bool) string {
	aiStatus := "❌ Kapalı"
	if aiEnabled {
		aiStatus = "✅ Aktif"
	}
	return fmt.Sprintf(`📖 ULUSAL TEVKİL AĞI - YARDIM

%s
📝 İLAN OLUŞTURMA (2 YOL):
%s

💬 1) DOĞAL DİL (AI) %s
Direkt yazın:
"İstanbul 5. Aile Mahkemesi'nde yarın saat 10:00 duruşmam var, 3000 TL"

📋 2) ŞABLONLU
#ILAN
Başlık: Boşanma Davası
Kategori: Aile Hukuku
Şehir: İstanbul
Açıklama: Yarın 10:00 duruşma
Fiyat: 3000
Aciliyet: Normal / Acil / Çok Acil

%s
📌 DİĞER KOMUTLAR:
%s

#ILANLARIM - Aktif ilanlarımı göster
#BASVURULARIM - Başvurularımı göster
#DURUM - Hesap durumumu göster
#YARDIM - Bu yardım menüsü

🌐 Web: %s
📧 Destek: %s`, divider, divider, aiStatus, divider, divider, r.siteURL, r.supportEmail)
}

func (r *Replies) Status(account *domain.Account, stats *domain.AccountStats) string {
	return fmt.Sprintf(`📊 HESAP DURUMUNUZ

👤 %s
📞 %s

📋 Aktif İlanlarınız: %d
📥 Bekleyen Başvurular: %d
📤 Yaptığınız Başvurular: %d

🔗 Detaylar: %s/dashboard

Komutlar için #YARDIM yazın.`,
		account.FullName, account.Phone,
		stats.ActiveListings, stats.PendingApplicationsReceived, stats.ApplicationsSent,
		r.siteURL)
}

func (r *Replies) MyListings(listings []*domain.ListingSummary) string {
	if len(listings) == 0 {
		return `📋 AKTİF İLANINIZ YOK

İlan oluşturmak için:
#ILAN yazıp gerekli bilgileri ekleyin.

Format için #YARDIM yazın.`
	}

	var b strings.Builder
	b.WriteString("📋 AKTİF İLANLARINIZ:\n\n")
	for _, s := range listings {
		l := s.Listing
		fmt.Fprintf(&b, "🔹 #%d - %s\n", l.ID, l.Title)
		fmt.Fprintf(&b, "📍 %s | %s\n", l.Location, l.Category)
		fmt.Fprintf(&b, "📊 %d başvuru\n", s.ApplicationCount)
		fmt.Fprintf(&b, "🔗 %s\n\n", r.ListingURL(l.ID))
	}
	b.WriteString("Detaylar için web sitesine giriş yapın.")
	return b.String()
}

func (r *Replies) MyApplications(apps []*domain.ApplicationSummary) string {
	if len(apps) == 0 {
		return fmt.Sprintf(`📝 BAŞVURUNUZ YOK

İlanlara göz atmak için:
🔗 %s/posts`, r.siteURL)
	}

	var b strings.Builder
	b.WriteString("📝 BAŞVURULARINIZ:\n\n")
	for _, s := range apps {
		a := s.Application
		fmt.Fprintf(&b, "%s %s\n", a.Status.Emoji(), s.ListingTitle)
		fmt.Fprintf(&b, "📍 %s\n", s.ListingLocation)
		fmt.Fprintf(&b, "💰 Teklifiniz: %s TL\n", formatPrice(a.ProposedPrice))
		fmt.Fprintf(&b, "Durum: %s\n\n", a.Status)
	}
	b.WriteString("Detaylar için web sitesine giriş yapın.")
	return b.String()
}

// NewApplication notifies a listing owner
func (r *Replies) NewApplication(l *domain.Listing, app *domain.Application, applicant *domain.Account) string {
	return fmt.Sprintf(`🔔 YENİ BAŞVURU!

📋 İlanınız: %s
👤 Başvuran: %s
📍 Şehir: %s
💰 Teklif: %s TL

💬 Mesaj: %s

Kabul/Red için:
🔗 %s

Başvuruyu kabul ettiğinizde başvuran avukata otomatik bildirim gönderilir.`,
		l.Title, applicant.FullName, applicant.City, formatPrice(app.ProposedPrice),
		app.Message, r.ListingURL(l.ID))
}

// ApplicationAccepted notifies the applicant
func (r *Replies) ApplicationAccepted(l *domain.Listing, app *domain.Application, owner *domain.Account) string {
	return fmt.Sprintf(`✅ BAŞVURUNUZ KABUL EDİLDİ!

📋 İlan: %s
👤 İlan Sahibi: %s
📞 İletişim: %s
📍 Şehir: %s
💰 Anlaşılan Ücret: %s TL

Detaylar:
🔗 %s

İlan sahibi ile iletişime geçebilirsiniz.`,
		l.Title, owner.FullName, owner.Phone, l.Location, formatPrice(app.ProposedPrice),
		r.ListingURL(l.ID))
}

// AcceptanceConfirmed tells the owner the applicant was informed
func (r *Replies) AcceptanceConfirmed(l *domain.Listing, applicant *domain.Account) string {
	return fmt.Sprintf(`🤝 BAŞVURU KABUL EDİLDİ

📋 İlan: %s
👤 Avukat: %s
📞 İletişim: %s

Başvuran avukata bildirim gönderildi.`, l.Title, applicant.FullName, applicant.Phone)
}

func (r *Replies) ApplicationRejected(l *domain.Listing) string {
	return fmt.Sprintf(`❌ BAŞVURUNUZ REDDEDİLDİ

📋 İlan: %s
📍 Şehir: %s

Başka ilanlara göz atmaya devam edebilirsiniz:
🔗 %s/posts`, l.Title, l.Location, r.siteURL)
}

// UrgentAlert is the SMS sent to lawyers in the city of an urgent listing
func (r *Replies) UrgentAlert(p *domain.ListingEventPayload) string {
	return fmt.Sprintf("ACİL TEVKİL: %s (%s). Detay: %s", p.Title, p.City, r.ListingURL(p.ListingID))
}

// NonTextNotice answers media messages
func (r *Replies) NonTextNotice(t domain.MessageType) string {
	if t == domain.MessageTypeAudio {
		return `🎤 Sesli mesajları henüz işleyemiyoruz.

Lütfen ilanınızı yazılı olarak gönderin.

Yardım: #YARDIM`
	}
	return `📎 Şu an yalnızca metin mesajlarını işleyebiliyoruz.

Lütfen mesajınızı yazılı olarak gönderin.

Yardım: #YARDIM`
}
