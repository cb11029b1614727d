package logger

import (
	"os"
	"testing"

	"github.com/careerloop/jobfeed/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_Setup_TracksLogFileForCleanup(t *testing.T) {

	defer func() {
		log.SetOutput(os.Stdout)
		_ = os.RemoveAll("./logs")
	}()

	Setup(config.LoggerConfig{LogLevel: config.LevelInfo})

	assert.NotNil(t, logFile)
	Cleanup()

	// the handle is really closed, not a shadowed copy
	assert.Error(t, logFile.Close())
}
