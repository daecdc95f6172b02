package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
)

func TestVoiceReply_PrefersAudioClip(t *testing.T) {
	// Arrange
	audioURL := "https://cdn.example.com/clips/greeting.mp3"

	// Act
	twiml := VoiceReply("Thanks for calling.", audioURL, "/webhook/voice")

	// Assert
	if !strings.Contains(twiml, "<Play>"+audioURL+"</Play>") {
		t.Errorf("expected a Play verb for the clip, got %s", twiml)
	}
	if strings.Contains(twiml, "<Say>") {
		t.Error("Say must not appear when a clip is available")
	}
}

func TestVoiceReply_FallsBackToSay(t *testing.T) {
	// Arrange & Act
	twiml := VoiceReply("What's your name?", "", "/webhook/voice")

	// Assert
	if !strings.Contains(twiml, "<Say>What&#39;s your name?</Say>") {
		t.Errorf("expected an escaped Say verb, got %s", twiml)
	}
	if !strings.Contains(twiml, `<Gather input="speech"`) {
		t.Error("the call must keep gathering speech after the reply")
	}
}

func TestMessageReply_EscapesBody(t *testing.T) {
	// Arrange & Act
	twiml := MessageReply("Fee is $89 & credited toward <repair>")

	// Assert
	if !strings.Contains(twiml, "Fee is $89 &amp; credited toward &lt;repair&gt;") {
		t.Errorf("expected escaped body, got %s", twiml)
	}
}

func TestValidateSignature_AcceptsTwilioScheme(t *testing.T) {
	// Arrange
	authToken := "secret-token"
	requestURL := "https://engine.example.com/webhook/sms"
	form := url.Values{}
	form.Set("From", "+15550002222")
	form.Set("To", "+15550001111")
	form.Set("Body", "my washer is leaking")

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(requestURL + "Bodymy washer is leakingFrom+15550002222To+15550001111"))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Act & Assert
	if !ValidateSignature(authToken, requestURL, form, signature) {
		t.Error("expected a correctly signed request to validate")
	}
	if ValidateSignature(authToken, requestURL, form, "bogus") {
		t.Error("expected a bogus signature to be rejected")
	}
	if ValidateSignature("", requestURL, form, signature) {
		t.Error("expected validation to fail without an auth token")
	}
}
