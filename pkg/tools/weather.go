package tools

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is used by Time when no timezone is given.
const DefaultTimezone = "UTC"

// ErrUnknownTimezone is wrapped by UnknownTimezoneError.
var ErrUnknownTimezone = errors.New("unknown timezone")

// UnknownTimezoneError reports a timezone name that could not be resolved.
type UnknownTimezoneError struct {
	Timezone string
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("Unknown timezone '%s'.", e.Timezone)
}

func (e *UnknownTimezoneError) Unwrap() error { return ErrUnknownTimezone }

// Weather returns the current weather for a city.
// The value is fixed; there is no real weather backend behind it.
func Weather(city string) string {
	return fmt.Sprintf("The weather in %s is sunny, 72°F", city)
}

// Time reports the wall-clock time of now in the named IANA timezone.
func Time(timezone string, now time.Time) (string, error) {
	if strings.TrimSpace(timezone) == "" {
		timezone = DefaultTimezone
	}
	// "Local" is a Go alias for the process zone, not a zone name.
	if timezone == "Local" {
		return "", &UnknownTimezoneError{Timezone: timezone}
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", &UnknownTimezoneError{Timezone: timezone}
	}
	return fmt.Sprintf("Current time in %s: %s", timezone, now.In(loc).Format("15:04:05")), nil
}

// LocalTime reports now in the process-local zone.
func LocalTime(now time.Time) string {
	return fmt.Sprintf("Current local time: %s", now.Local().Format("15:04:05"))
}

type weatherArgs struct {
	City string `json:"city" jsonschema_description:"City to look up, for example NYC or Berlin."`
}

type localTimeArgs struct{}

type timeArgs struct {
	Timezone string `json:"timezone,omitempty" jsonschema:"default=UTC" jsonschema_description:"IANA timezone name such as America/New_York. Defaults to UTC."`
}

func newWeatherTool(ctx Context) tool {
	return &funcTool[weatherArgs]{
		ctx:         ctx,
		toolName:    NameGetWeather,
		description: "Get current weather for a city.",
		run: func(ctx Context, args weatherArgs) (any, error) {
			ctx.debugf("[verbose] get_weather: city=%s", args.City)
			return Weather(args.City), nil
		},
	}
}

func newTimeTool(ctx Context) tool {
	return &funcTool[timeArgs]{
		ctx:         ctx,
		toolName:    NameGetTime,
		description: "Get current time in specified timezone.",
		run: func(ctx Context, args timeArgs) (any, error) {
			ctx.debugf("[verbose] get_time: timezone=%s", args.Timezone)
			return Time(args.Timezone, ctx.now())
		},
	}
}

func newLocalTimeTool(ctx Context) tool {
	return &funcTool[localTimeArgs]{
		ctx:         ctx,
		toolName:    NameGetLocalTime,
		description: "Get current time in the local timezone of this machine.",
		run: func(ctx Context, _ localTimeArgs) (any, error) {
			ctx.debugf("[verbose] get_local_time")
			return LocalTime(ctx.now()), nil
		},
	}
}
