package telephony

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// VoiceReply renders the TwiML for one voice turn. When an audio URL is
// present the clip plays instead of the robot voice; either way the call stays
// open gathering the caller's next utterance.
func VoiceReply(text, audioURL, actionURL string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	fmt.Fprintf(&b, `<Gather input="speech" action="%s" method="POST" speechTimeout="auto">`, escape(actionURL))
	if audioURL != "" {
		fmt.Fprintf(&b, "<Play>%s</Play>", escape(audioURL))
	} else {
		fmt.Fprintf(&b, "<Say>%s</Say>", escape(text))
	}
	b.WriteString("</Gather>")
	// No input after the gather window: prompt once more, then let Twilio
	// re-post to the same action.
	fmt.Fprintf(&b, `<Redirect method="POST">%s</Redirect>`, escape(actionURL))
	b.WriteString("</Response>")
	return b.String()
}

// VoiceHangup renders a final spoken line followed by hangup.
func VoiceHangup(text string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	if text != "" {
		fmt.Fprintf(&b, "<Say>%s</Say>", escape(text))
	}
	b.WriteString("<Hangup/></Response>")
	return b.String()
}

// MessageReply renders the TwiML for an inbound SMS response.
func MessageReply(body string) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString("<Response>")
	fmt.Fprintf(&b, "<Message>%s</Message>", escape(body))
	b.WriteString("</Response>")
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
