// Package journal はゲートウェイ呼び出しのイベントをSQLiteに記録する。
//
// 1回の呼び出しにつき1件のevent.Eventを保存し、運用者エンドポイントから
// 新しい順に参照できるようにする。記録は診断目的のみであり、
// 保存内容がリクエスト処理に読み戻されることはない。
package journal
