package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lesiontracker/tracker-server/config"
	"github.com/lesiontracker/tracker-server/lib"
	S "github.com/lesiontracker/tracker-server/service"
)

const owner = "script"

func main() {
	config.SetupAll()

	// コマンドライン引数
	current := flag.String("current", "", "現在のタイムポイントID。")
	studies := flag.String("studies", "", "カンマ区切りのStudyInstanceUID。")
	timeout := flag.Duration("timeout", 30*time.Second, "読み込みの待ち時間。")
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		log.Fatal("usage: go run main.go [-current timepointId] [-studies uid,uid] [patientId]")
	}

	uids := []string{}
	if *studies != "" {
		uids = strings.Split(*studies, ",")
	}

	service := &S.ViewerService{
		Service:  &S.Service{Log: logrus.WithField("script", "first_measurement")},
		DB:       lib.GetDB(lib.ReadDBKey),
		Influx:   lib.GetInfluxDB(),
		Config:   S.MeasurementConfig(),
		Registry: S.Sessions(),
		Cache:    S.PatientCache(),
	}

	os.Exit(run(service, args[0], *current, uids, *timeout, os.Stdout, os.Stderr))
}

// セッションを開き、読み込み完了後に描画完了として評価する。
// 終了コードを返す。セッションは常に終了させる。
func run(
	service *S.ViewerService,
	patientId string,
	currentTimepointId string,
	studyInstanceUids []string,
	timeout time.Duration,
	stdout io.Writer,
	stderr io.Writer,
) int {
	session, done := service.Open(owner, patientId, currentTimepointId, studyInstanceUids)
	defer service.Close(owner, session.Id)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case err := <-done:
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load session: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		fmt.Fprintf(stderr, "Loading timed out after %v\n", timeout)
		return 1
	}

	// ビューアの描画完了として評価する。
	result := session.SetViewerMainReady()

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if !result.Activated() {
		fmt.Fprintf(stderr, "skipped: %s\n", result.Reason)
		return 1
	}

	return 0
}
