package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"riichi/common/log"
	"riichi/runtime/game/engines/mahjong"

	"github.com/nats-io/nats.go"
)

var (
	ErrNotConnected = errors.New("nats not connected")
	ErrQueueFull    = errors.New("push queue full")
	ErrClosed       = errors.New("publisher closed")
)

const DefaultWriteQueueSize = 1024

// Client 发布端最小接口，便于替换
type Client interface {
	Publish(subject string, data []byte) error
	Close()
}

// natsConn 包装 *nats.Conn
type natsConn struct {
	conn *nats.Conn
}

func (c *natsConn) Publish(subject string, data []byte) error {
	if !c.conn.IsConnected() {
		return ErrNotConnected
	}
	return c.conn.Publish(subject, data)
}

func (c *natsConn) Close() {
	c.conn.Close()
}

type packet struct {
	subject string
	data    []byte
}

// NatsPublisher 把牌桌事件发布到 NATS
// 公开事件发到 <subject>.<tableID>，私有事件发到 <subject>.<tableID>.seat<N>
type NatsPublisher struct {
	subject   string
	cli       Client
	writeChan chan packet
	done      chan struct{}
	exit      chan struct{}
	closeOnce sync.Once
}

// Connect 连接 NATS 并启动发布协程
func Connect(url, subject string) (*NatsPublisher, error) {
	log.Info("nats 正在连接, url:%s", url)
	conn, err := nats.Connect(url, nats.Name("riichi-table-publisher"))
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return nil, err
	}
	log.Info("nats 连接成功, url:%s", url)
	return NewNatsPublisher(&natsConn{conn: conn}, subject), nil
}

func NewNatsPublisher(cli Client, subject string) *NatsPublisher {
	p := &NatsPublisher{
		subject:   subject,
		cli:       cli,
		writeChan: make(chan packet, DefaultWriteQueueSize),
		done:      make(chan struct{}),
		exit:      make(chan struct{}),
	}
	go p.writeChanMessage()
	return p
}

// Subject 事件对应的主题
func (p *NatsPublisher) Subject(event mahjong.TableEvent) string {
	if event.Private && event.Seat >= 0 {
		return fmt.Sprintf("%s.%s.seat%d", p.subject, event.TableID, event.Seat)
	}
	return fmt.Sprintf("%s.%s", p.subject, event.TableID)
}

// Push 实现 mahjong.Pusher，不阻塞牌桌的 actor 协程
func (p *NatsPublisher) Push(event mahjong.TableEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化推送失败: %w", err)
	}
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.writeChan <- packet{subject: p.Subject(event), data: data}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *NatsPublisher) writeChanMessage() {
	defer close(p.exit)
	for {
		select {
		case <-p.done:
			// 发完剩余的消息
			for {
				select {
				case msg := <-p.writeChan:
					p.publish(msg)
				default:
					return
				}
			}
		case msg := <-p.writeChan:
			p.publish(msg)
		}
	}
}

func (p *NatsPublisher) publish(msg packet) {
	if err := p.cli.Publish(msg.subject, msg.data); err != nil {
		log.Error("nats 发送错误, subject: %s, err: %v", msg.subject, err)
	}
}

func (p *NatsPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		<-p.exit
		p.cli.Close()
		log.Info("NATS 连接已关闭")
	})
}
