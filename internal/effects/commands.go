// Package effects defines the presentation effect requests the engine emits
// and the dispatchers that deliver them. The engine never performs audio or
// visual work itself; it only describes what a presentation collaborator
// should do.
package effects

// Kind tags an effect command.
type Kind string

const (
	KindCelebration Kind = "celebration"
	KindFeedback    Kind = "feedback"
	KindAudioPlay   Kind = "audio_play"
	KindAudioStop   Kind = "audio_stop"
	KindListenStart Kind = "listen_start"
	KindListenStop  Kind = "listen_stop"
	KindPoints      Kind = "points"
	KindNotice      Kind = "notice"
)

// Command is one presentation request. Only the fields relevant to its Kind
// are populated.
type Command struct {
	Kind Kind `json:"kind"`

	// Celebration fields.
	FocusTarget string `json:"focusTarget,omitempty"`
	Canvas      string `json:"canvas,omitempty"`
	Intensity   string `json:"intensity,omitempty"`
	Palette     string `json:"palette,omitempty"`

	// Feedback and notice fields.
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`

	// Audio source for play requests.
	Audio string `json:"audio,omitempty"`

	// Reward amount for points requests.
	Points int `json:"points,omitempty"`

	// Context identifiers.
	Level    string `json:"level,omitempty"`
	Exercise string `json:"exercise,omitempty"`
}

// Celebration builds a celebration request aimed at the given focus target.
func Celebration(focusTarget, intensity, palette string) Command {
	return Command{
		Kind:        KindCelebration,
		FocusTarget: focusTarget,
		Canvas:      "overlay",
		Intensity:   intensity,
		Palette:     palette,
	}
}

// Feedback builds a feedback request carrying a message for the player.
func Feedback(focusTarget, message string) Command {
	return Command{Kind: KindFeedback, FocusTarget: focusTarget, Message: message}
}

// HintFeedback builds the progressive-hint feedback request.
func HintFeedback(focusTarget, message, suggestion string) Command {
	return Command{
		Kind:        KindFeedback,
		FocusTarget: focusTarget,
		Message:     message,
		Suggestion:  suggestion,
	}
}

// AudioPlay requests playback of an audio asset.
func AudioPlay(src string) Command {
	return Command{Kind: KindAudioPlay, Audio: src}
}

// AudioStop requests that any in-flight audio playback stop.
func AudioStop() Command {
	return Command{Kind: KindAudioStop}
}

// ListenStart requests that voice listening begin for the current exercise.
func ListenStart() Command {
	return Command{Kind: KindListenStart}
}

// ListenStop requests that any in-flight voice listening stop.
func ListenStop() Command {
	return Command{Kind: KindListenStop}
}

// Points requests a reward-display update.
func Points(amount int) Command {
	return Command{Kind: KindPoints, Points: amount}
}

// Notice builds a non-error notification, such as an access-denied message.
func Notice(message string) Command {
	return Command{Kind: KindNotice, Message: message}
}
