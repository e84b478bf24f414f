package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResearchPromptIncludesTask(t *testing.T) {
	c := Default()
	out, err := c.Research.Format("Research trending tech topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Task: Research trending tech topics")
	assert.NotContains(t, out, "{{")
	assert.Contains(t, c.WeatherSystem, "get_time")
}

func TestLoadCustomCatalogue(t *testing.T) {
	c, err := Load([]byte("research: \"Do {{.Task}} now\"\nweather_system: be brief\n"))
	require.NoError(t, err)
	out, err := c.Research.Format("X")
	require.NoError(t, err)
	assert.Equal(t, "Do X now", out)
	assert.Equal(t, "be brief", c.WeatherSystem)
}

func TestLoadRejectsIncompleteCatalogue(t *testing.T) {
	_, err := Load([]byte("weather_system: hi\n"))
	assert.Error(t, err)

	_, err = Load([]byte("research: hi\n"))
	assert.Error(t, err)

	_, err = Load([]byte("research: \"{{.Task\"\nweather_system: x\n"))
	assert.Error(t, err)

	_, err = Load([]byte("research: [unclosed"))
	assert.Error(t, err)
}

func TestZeroTemplateFails(t *testing.T) {
	_, err := Template{}.Format("x")
	assert.Error(t, err)
}
