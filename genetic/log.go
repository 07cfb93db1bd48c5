package genetic

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numPrinter = message.NewPrinter(language.English)

// LogObserver logs a summary of every generation. The full fitness vector and
// Population are only logged at debug level.
type LogObserver struct {
	Logger *logrus.Logger
}

func NewLogObserver(logger *logrus.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) OnGeneration(report *GenerationReport) error {
	entry := o.Logger.WithFields(logrus.Fields{
		"iteration":    report.Iteration,
		"avg_fitness":  numPrinter.Sprintf("%d", report.AvgFitness),
		"best_fitness": numPrinter.Sprintf("%d", report.BestFitness),
	})

	if o.Logger.IsLevelEnabled(logrus.DebugLevel) {
		entry.WithFields(logrus.Fields{
			"fitness":    report.Fitness.String(),
			"population": report.Population.String(),
		}).Debug("generation evaluated")
	} else {
		entry.Info("generation evaluated")
	}

	if report.Solved() {
		entry.WithField("solution", report.Best().String()).Info("solution found")
	}

	return nil
}
