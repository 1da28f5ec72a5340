package logger

import "go.uber.org/zap"

var log = zap.NewNop().Sugar()

// Init replaces the package logger. Development mode gives colored,
// human-readable output; production mode emits JSON.
func Init(development bool) {
	var (
		l   *zap.Logger
		err error
	)
	if development {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	log = l.Sugar()
}

// Named returns a child logger tagged with the component name.
func Named(component string) *zap.SugaredLogger {
	return log.Named(component)
}

func Sync() {
	_ = log.Sync()
}

func Fatal(msg string, kv ...interface{}) {
	log.Fatalw(msg, kv...)
}
