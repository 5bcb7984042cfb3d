package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/style-image-kit/pkg/domain"
	"github.com/spf13/cobra"
)

const sessionHelp = `コマンド:
  upload <path>   元画像を読み込む
  style <text>    スタイルを指定して生成する（直前の結果を引き継ぐ）
  wait            実行中の生成の完了を待つ
  save <path>     直前の生成結果を保存する
  status          セッションの状態を表示する
  about           このツールについて
  help            このヘルプ
  quit            終了する`

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "対話的にアップロード・生成・保存を繰り返す",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return a.runSession(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runSession は行単位でコマンドを読み、Coordinator に渡します。
// 生成は非同期に進み、結果は Presenter 経由で表示されます。
func (a *app) runSession(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var upload *domain.Upload
	fmt.Fprintln(out, sessionHelp)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(name) {
		case "":
		case "upload":
			u, err := a.loader.Load(ctx, arg)
			if err != nil {
				a.presenter.OnError(domain.UserMessage(err))
				continue
			}
			upload = u
			b := u.Preview.Image.Bounds()
			a.presenter.OnInfo(fmt.Sprintf("読み込みました: %s %dx%d (プレビュー %dx%d)", u.Name, u.Preview.Width, u.Preview.Height, b.Dx(), b.Dy()))
		case "style", "generate":
			var data []byte
			if upload != nil {
				data = upload.Data
			}
			// エラーは Presenter に通知済み
			_, _ = a.coordinator.Submit(ctx, arg, data)
		case "wait":
			if task := a.coordinator.Current(); task != nil {
				<-task.Done()
			}
		case "save":
			if !a.coordinator.State().SaveEnabled {
				a.presenter.OnInfo("保存できる生成結果がありません")
				continue
			}
			_ = a.coordinator.Save(ctx, arg)
		case "status":
			s := a.coordinator.State()
			fmt.Fprintf(out, "image_id=%s url=%s in_flight=%t save_enabled=%t mode=%s\n",
				s.PreviousImageID(), s.GeneratedImageURL, s.InFlight, s.SaveEnabled, a.mode)
		case "about":
			fmt.Fprintln(out, aboutText)
		case "help":
			fmt.Fprintln(out, sessionHelp)
		case "quit", "exit":
			return a.drain()
		default:
			fmt.Fprintf(out, "不明なコマンドです: %s\n", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return a.drain()
}

// drain は終了前に実行中の生成を待ちます。
func (a *app) drain() error {
	if task := a.coordinator.Current(); task != nil {
		<-task.Done()
	}
	return nil
}
