package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postpilot/src-server/extract"
)

// fixed reference date so every case is reproducible
var refDate = time.Date(2025, time.June, 1, 10, 30, 0, 0, time.Local)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want time.Time
	}{
		{
			name: "labeled date with year",
			msg:  "**Date:** July 10, 2025\nHere's the recap you asked for.",
			want: day(2025, time.July, 10),
		},
		{
			name: "labeled date without bold or year",
			msg:  "Date: March 3rd\nSpring cleaning content.",
			want: day(2025, time.March, 3),
		},
		{
			name: "labeled date beats relative phrase",
			msg:  "**Date:** July 10, 2025\nWe could also do it tomorrow.",
			want: day(2025, time.July, 10),
		},
		{
			name: "unrecognized month in label falls through",
			msg:  "Date: Floptember 12\nLet's just post it tomorrow.",
			want: day(2025, time.June, 2),
		},
		{
			name: "tomorrow",
			msg:  "Let's post it tomorrow.",
			want: day(2025, time.June, 2),
		},
		{
			name: "in n days",
			msg:  "This should go out in 5 days.",
			want: day(2025, time.June, 6),
		},
		{
			name: "next week",
			msg:  "Push this next week, the audience will be back from vacation.",
			want: day(2025, time.June, 8),
		},
		{
			name: "month day after verb",
			msg:  `Please schedule a video titled "Summer Trends" on June 15th`,
			want: day(2025, time.June, 15),
		},
		{
			name: "month day with year after verb",
			msg:  "Publish for August 9, 2026 to align with the launch.",
			want: day(2026, time.August, 9),
		},
		{
			name: "day before month",
			msg:  "Let's aim to publish on the 3rd of July.",
			want: day(2025, time.July, 3),
		},
		{
			name: "numeric date month first",
			msg:  "Schedule it for 6/15 please.",
			want: day(2025, time.June, 15),
		},
		{
			name: "numeric date day first when above twelve",
			msg:  "Schedule it for 15/6 please.",
			want: day(2025, time.June, 15),
		},
		{
			name: "numeric date with two digit year",
			msg:  "Post this on 12-05-24.",
			want: day(2024, time.December, 5),
		},
		{
			name: "bare day in current month",
			msg:  "Can you schedule the post for the 22nd?",
			want: day(2025, time.June, 22),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extract.ResolveDate(tc.msg, refDate)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveDateNoMatch(t *testing.T) {
	for _, msg := range []string{
		"Let's talk about cats",
		"",
		"The engagement numbers look great this quarter.",
	} {
		_, ok := extract.ResolveDate(msg, refDate)
		assert.False(t, ok, "message %q should not resolve", msg)
	}
}

func TestResolveDateInvalidMonthDay(t *testing.T) {
	// June has 30 days; the candidate is rejected instead of wrapping
	// around, and no other rule matches.
	_, ok := extract.ResolveDate("Let's post on June 31st.", refDate)
	assert.False(t, ok)
}

func TestResolveDateBareDayOverflow(t *testing.T) {
	// The bare-day rule is deliberately unvalidated: "the 31st" against a
	// February reference rolls over into March.
	febRef := time.Date(2025, time.February, 10, 9, 0, 0, 0, time.Local)
	got, ok := extract.ResolveDate("Post it by the 31st.", febRef)
	require.True(t, ok)
	assert.Equal(t, day(2025, time.March, 3), got)
}

func TestResolveDateDeterministic(t *testing.T) {
	msg := "Schedule the roundup in 12 days."
	first, ok := extract.ResolveDate(msg, refDate)
	require.True(t, ok)
	second, ok := extract.ResolveDate(msg, refDate)
	require.True(t, ok)
	assert.Equal(t, first, second)
}
