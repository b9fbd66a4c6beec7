package report

import (
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/forkcheck/internal/dumpfile"
	"github.com/AndreyAkinshin/forkcheck/internal/runresult"
)

// FailureMarker leads the diagnostic when tests failed.
const FailureMarker = "There are test failures."

// TimeoutMessage leads the diagnostic when a fork timed out.
const TimeoutMessage = "There was a timeout in the fork"

// ComposeMessage builds the diagnostic for a run that did not cleanly succeed.
// The result is a pure function of its inputs.
func ComposeMessage(params Parameters, result runresult.RunResult, forkErr error) string {
	var msg strings.Builder
	msg.Grow(512)

	if result.Timeout {
		msg.WriteString(TimeoutMessage)
	} else {
		if result.Failures > 0 {
			msg.WriteString(FailureMarker)
		}
		if IsTooFlaky(params, result) {
			if result.Failures > 0 {
				msg.WriteString("\n")
			}
			msg.WriteString(flakeSentence(result.Flakes, params.FailOnFlakeCount))
		}

		templates := dumpfile.Templates()
		msg.WriteString("\n\nPlease refer to ")
		msg.WriteString(params.ReportsDirectory)
		msg.WriteString(" for the individual test results.\n")
		msg.WriteString("Please refer to dump files (if any exist) ")
		msg.WriteString(templates[0])
		msg.WriteString(", ")
		msg.WriteString(templates[1])
		msg.WriteString(" and ")
		msg.WriteString(templates[2])
		msg.WriteString(".")
	}

	if forkErr != nil {
		if desc := forkErr.Error(); desc != "" {
			msg.WriteString("\n")
			msg.WriteString(desc)
		}
	}

	if result.IsFailure() {
		msg.WriteString("\n")
		msg.WriteString(result.Failure)
	}

	return msg.String()
}

func flakeSentence(flakes, threshold int) string {
	var b strings.Builder
	b.WriteString("There")
	if flakes == 1 {
		b.WriteString(" is 1 flake ")
	} else {
		b.WriteString(" are ")
		b.WriteString(strconv.Itoa(flakes))
		b.WriteString(" flakes ")
	}
	b.WriteString("and fail_on_flake_count is set to ")
	b.WriteString(strconv.Itoa(threshold))
	b.WriteString(".")
	return b.String()
}
